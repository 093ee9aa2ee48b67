package gen

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Function is one C function declaration found in preprocessed text.
type Function struct {
	Name      string
	Result    string // return type, e.g. "void *"
	Params    string // parameter list without parentheses
	Prototype string // normalized declaration without the trailing semicolon
}

// prototypeRe matches "<result> <name>(<params>)". The result must end in a
// space or a '*', which rules out function pointers and calls.
var prototypeRe = regexp.MustCompile(`^(.*?[\s*])([A-Za-z_]\w*)\s*\((.*)\)$`)

// ScanFunctions extracts function prototypes from preprocessed C text,
// keeping those whose name matches allow and is not in block. Results are in
// declaration order with duplicates removed.
func ScanFunctions(text, allow string, block []string) ([]Function, error) {
	allowRe, err := regexp.Compile(allow)
	if err != nil {
		return nil, fmt.Errorf("bad allow pattern %q: %w", allow, err)
	}

	seen := map[string]bool{}
	var funcs []Function
	for _, decl := range declarations(text) {
		fn, ok := parsePrototype(decl)
		if !ok || seen[fn.Name] {
			continue
		}
		if !allowRe.MatchString(fn.Name) || slices.Contains(block, fn.Name) {
			continue
		}
		seen[fn.Name] = true
		funcs = append(funcs, fn)
	}
	return funcs, nil
}

// declarations splits text into top-level declarations. Line markers and
// other directives are dropped, whitespace is collapsed, and anything with a
// body is skipped.
func declarations(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	joined := strings.Join(lines, "\n")

	var decls []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		d := strings.Join(strings.Fields(cur.String()), " ")
		if d != "" && !strings.Contains(d, "{") {
			decls = append(decls, d)
		}
		cur.Reset()
	}
	for _, r := range joined {
		switch {
		case r == ';' && depth == 0:
			flush()
			continue
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		}
		cur.WriteRune(r)
		// function definitions have no trailing ';'
		if r == '}' && depth == 0 && isFunctionBody(cur.String()) {
			cur.Reset()
		}
	}
	flush()
	return decls
}

// isFunctionBody reports whether d looks like "<prototype> { ... }" rather
// than a struct or enum definition, which is followed by a declarator and ';'.
func isFunctionBody(d string) bool {
	open := strings.IndexByte(d, '{')
	if open < 0 {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(d[:open]), ")")
}

func parsePrototype(decl string) (Function, bool) {
	decl = strings.TrimPrefix(decl, "extern ")
	if strings.HasPrefix(decl, "typedef ") {
		return Function{}, false
	}
	m := prototypeRe.FindStringSubmatch(decl)
	if m == nil {
		return Function{}, false
	}
	result := strings.TrimSpace(m[1])
	if result == "" || strings.ContainsAny(result, "()=") {
		return Function{}, false
	}
	return Function{
		Name:      m[2],
		Result:    result,
		Params:    strings.TrimSpace(m[3]),
		Prototype: decl,
	}, true
}
