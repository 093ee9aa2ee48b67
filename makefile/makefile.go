// Package makefile reads and rewrites simple variable assignments in a
// Makefile while preserving every other line verbatim.
package makefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lammps-go/lammpsys/ccflags"
)

// Makefile holds the lines of a LAMMPS machine Makefile. Only simple
// "NAME = value" assignments can be read or rewritten; every other line is
// carried through untouched.
type Makefile struct {
	lines []string
}

// Read reads a Makefile from r.
func Read(r io.Reader) (*Makefile, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading makefile: %w", err)
	}
	return &Makefile{lines: lines}, nil
}

// Parse reads a Makefile from a string.
func Parse(text string) (*Makefile, error) {
	return Read(strings.NewReader(text))
}

// Load reads the Makefile at path.
func Load(path string) (*Makefile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening makefile: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// WriteTo writes every line followed by a newline.
func (m *Makefile) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, line := range m.lines {
		c, err := bw.WriteString(line)
		n += int64(c)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Save writes the Makefile to path, creating parent directories as needed.
func (m *Makefile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func (m *Makefile) String() string {
	var b strings.Builder
	m.WriteTo(&b)
	return b.String()
}

// Lines returns a copy of the Makefile's lines.
func (m *Makefile) Lines() []string {
	return append([]string(nil), m.lines...)
}

// VarDef locates the right-hand side of one simple variable assignment.
type VarDef struct {
	Name string
	line int
	col  int // first byte after '='
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Var finds the single "NAME = ..." line for name.
//
// The search is simple: a candidate line starts with name
// followed by a non-identifier byte. Exactly one candidate must exist, its
// text before the first '=' must be exactly name (so "+=", ":=" and "?="
// are refused), and it must not end in a line continuation.
func (m *Makefile) Var(name string) (*VarDef, error) {
	if name == "" {
		return nil, &ccflags.Error{Kind: ccflags.UnknownVariable, Name: `""`, Detail: "empty variable name"}
	}
	index := -1
	for i, line := range m.lines {
		if !strings.HasPrefix(line, name) || len(line) <= len(name) || isIdentByte(line[len(name)]) {
			continue
		}
		if index >= 0 {
			return nil, &ccflags.Error{Kind: ccflags.UnknownVariable, Name: name, Detail: "defined more than once"}
		}
		index = i
	}
	if index < 0 {
		return nil, &ccflags.Error{Kind: ccflags.UnknownVariable, Name: name}
	}

	line := m.lines[index]
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return nil, &ccflags.Error{Kind: ccflags.UnknownVariable, Name: name, Detail: "no '=' on line"}
	}
	if strings.TrimSpace(line[:eq]) != name {
		return nil, &ccflags.Error{Kind: ccflags.UnknownVariable, Name: name, Detail: "not a simple assignment"}
	}
	if strings.HasSuffix(line, `\`) {
		return nil, &ccflags.Error{Kind: ccflags.ContinuedLine, Name: name}
	}
	return &VarDef{Name: name, line: index, col: eq + 1}, nil
}

// Text returns the value of name with surrounding whitespace removed.
func (m *Makefile) Text(name string) (string, error) {
	def, err := m.Var(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(m.lines[def.line][def.col:]), nil
}

// Flags parses the value of name as compiler flags.
func (m *Makefile) Flags(name string) (ccflags.List, error) {
	text, err := m.Text(name)
	if err != nil {
		return nil, err
	}
	flags, err := ccflags.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return flags, nil
}

// SetText replaces the value of name, keeping the left-hand side as is.
func (m *Makefile) SetText(name, value string) error {
	if strings.HasSuffix(value, `\`) {
		return &ccflags.Error{Kind: ccflags.ContinuedLine, Name: name, Detail: "new value ends in a backslash"}
	}
	if strings.ContainsAny(value, "\r\n") {
		return &ccflags.Error{Kind: ccflags.ContinuedLine, Name: name, Detail: "new value spans more than one line"}
	}
	def, err := m.Var(name)
	if err != nil {
		return err
	}
	line := m.lines[def.line][:def.col]
	if value != "" {
		line += " " + value
	}
	m.lines[def.line] = line
	return nil
}

// SetFlags writes flags as the value of name in concatenated form.
func (m *Makefile) SetFlags(name string, flags ccflags.List) error {
	return m.SetText(name, flags.WithoutSpace())
}

// AppendFlags adds flags to the end of name's value. Repeating a flag that
// is already present is harmless for -D.
func (m *Makefile) AppendFlags(name string, flags ...ccflags.Flag) error {
	if len(flags) == 0 {
		return nil
	}
	current, err := m.Flags(name)
	if err != nil {
		return err
	}
	return m.SetFlags(name, ccflags.Concat(current, flags))
}

// GatherFlags joins the values of several variables with a space and parses
// the result as one flag string.
func (m *Makefile) GatherFlags(names ...string) (ccflags.List, error) {
	values := make([]string, 0, len(names))
	for _, name := range names {
		text, err := m.Text(name)
		if err != nil {
			return nil, err
		}
		values = append(values, text)
	}
	flags, err := ccflags.Parse(strings.Join(values, " "))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", strings.Join(names, ", "), err)
	}
	return flags, nil
}
