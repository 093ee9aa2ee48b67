// Package ccflags parses, rewrites and renders -D/-I/-L/-l style compiler and
// linker flags.
package ccflags

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies which compiler/linker option a Flag came from.
type Kind int

const (
	Define     Kind = iota // -D, a preprocessor definition
	IncludeDir             // -I, a header search directory
	LibDir                 // -L, a library search directory
	Lib                    // -l, a library to link
	Other                  // anything else, kept verbatim
)

func (k Kind) String() string {
	switch k {
	case Define:
		return "define"
	case IncludeDir:
		return "include-dir"
	case LibDir:
		return "lib-dir"
	case Lib:
		return "lib"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Prefix returns the option prefix for the kind ("-D", "-I", ...).
// Other has no prefix.
func (k Kind) Prefix() string {
	switch k {
	case Define:
		return "-D"
	case IncludeDir:
		return "-I"
	case LibDir:
		return "-L"
	case Lib:
		return "-l"
	default:
		return ""
	}
}

// Flag is one classified argument for the C compiler, preprocessor or linker.
//
// Value holds "NAME" or "NAME=VALUE" for Define, a path for IncludeDir and
// LibDir, a library name for Lib, and the raw token for Other.
type Flag struct {
	Kind  Kind
	Value string
}

// DefineFlag returns -D<def>, where def is "NAME" or "NAME=VALUE".
func DefineFlag(def string) Flag { return Flag{Kind: Define, Value: def} }

// IncludeDirFlag returns -I<p>.
func IncludeDirFlag(p string) Flag { return Flag{Kind: IncludeDir, Value: p} }

// LibDirFlag returns -L<p>.
func LibDirFlag(p string) Flag { return Flag{Kind: LibDir, Value: p} }

// LibFlag returns -l<name>.
func LibFlag(name string) Flag { return Flag{Kind: Lib, Value: name} }

// OtherFlag wraps a token that is not one of the recognized options.
func OtherFlag(raw string) Flag { return Flag{Kind: Other, Value: raw} }

// IsPath reports whether the flag carries a filesystem path.
func (f Flag) IsPath() bool {
	return f.Kind == IncludeDir || f.Kind == LibDir
}

// WithSpace renders the flag as "-l iberty".
func (f Flag) WithSpace() string {
	return f.render(" ")
}

// WithoutSpace renders the flag as "-liberty".
func (f Flag) WithoutSpace() string {
	return f.render("")
}

func (f Flag) String() string {
	return f.WithoutSpace()
}

func (f Flag) render(space string) string {
	if f.Kind == Other {
		return f.Value
	}
	return f.Kind.Prefix() + space + f.Value
}

// absolute resolves a relative path-bearing flag against base.
func (f Flag) absolute(base string) Flag {
	if !f.IsPath() || filepath.IsAbs(f.Value) {
		return f
	}
	return Flag{Kind: f.Kind, Value: filepath.Join(base, f.Value)}
}

// prefixes is checked in this order; the first match wins.
var prefixes = []Kind{Define, LibDir, Lib, IncludeDir}

// Parse splits s on whitespace and classifies each token.
//
// Only -D, -L, -l and -I are assumed to take an argument when it is given as
// a separate token. Any other option is kept as Other and is assumed not to
// be followed by an argument that itself starts with one of those prefixes;
// there is no reliable way to tell without knowing every option's arity.
func Parse(s string) (List, error) {
	fields := strings.Fields(s)

	// reversed, so the next token is popped off the end
	stack := make([]string, len(fields))
	for i, f := range fields {
		stack[len(fields)-1-i] = f
	}
	pop := func() (string, bool) {
		if len(stack) == 0 {
			return "", false
		}
		tok := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return tok, true
	}

	list := make(List, 0, len(fields))
	for {
		tok, ok := pop()
		if !ok {
			break
		}

		matched := false
		for _, kind := range prefixes {
			prefix := kind.Prefix()
			var arg string
			switch {
			case tok == prefix:
				next, ok := pop()
				if !ok {
					return nil, &Error{Kind: MalformedOption, Name: prefix}
				}
				arg = next
			case strings.HasPrefix(tok, prefix):
				arg = tok[len(prefix):]
			default:
				continue
			}
			flag, err := newPrefixed(kind, arg)
			if err != nil {
				return nil, err
			}
			list = append(list, flag)
			matched = true
			break
		}
		if !matched {
			list = append(list, OtherFlag(tok))
		}
	}
	return list, nil
}

func newPrefixed(kind Kind, arg string) (Flag, error) {
	switch kind {
	case Define:
		return DefineFlag(arg), nil
	case IncludeDir:
		return IncludeDirFlag(arg), nil
	case LibDir:
		return LibDirFlag(arg), nil
	case Lib:
		return LibFlag(arg), nil
	default:
		return Flag{}, fmt.Errorf("ccflags: no flag kind for prefix %q", kind.Prefix())
	}
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) List {
	list, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return list
}
