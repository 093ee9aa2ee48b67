package ccflags

import (
	"fmt"
	"path/filepath"
	"strings"
)

// List is an ordered sequence of flags. Order matters to the linker, which
// searches -L directories and resolves -l libraries left to right.
type List []Flag

// MakePathsAbsolute returns a copy of l where every relative -I and -L path
// is resolved against base. A relative base is first resolved against the
// working directory. Absolute paths are left alone, so applying the transform
// twice gives the same result.
func (l List) MakePathsAbsolute(base string) (List, error) {
	if l == nil {
		return nil, nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", base, err)
	}
	out := make(List, len(l))
	for i, f := range l {
		out[i] = f.absolute(abs)
	}
	return out, nil
}

// WithSpace renders the list as "-D FOO -I /x -l m".
// This is the form expected when every option and its value must stay
// recognizable as separate tokens, e.g. forwarded linker flags.
func (l List) WithSpace() string {
	return l.join(Flag.WithSpace)
}

// WithoutSpace renders the list as "-DFOO -I/x -lm", one atomic token per flag.
func (l List) WithoutSpace() string {
	return l.join(Flag.WithoutSpace)
}

func (l List) String() string {
	return l.WithoutSpace()
}

func (l List) join(render func(Flag) string) string {
	parts := make([]string, len(l))
	for i, f := range l {
		parts[i] = render(f)
	}
	return strings.Join(parts, " ")
}

// Args returns one concatenated argument per flag, suitable for exec.Command.
func (l List) Args() []string {
	args := make([]string, len(l))
	for i, f := range l {
		args[i] = f.WithoutSpace()
	}
	return args
}

// Filter returns the flags whose kind is one of kinds, in order.
func (l List) Filter(kinds ...Kind) List {
	var out List
	for _, f := range l {
		for _, k := range kinds {
			if f.Kind == k {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// Concat joins lists in order.
func Concat(lists ...List) List {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	out := make(List, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// DefinePair is a preprocessor definition split into name and optional value.
type DefinePair struct {
	Name  string
	Value string
}

// DefinesFromPairs turns name/value pairs into Define flags, "NAME" when the
// value is empty and "NAME=VALUE" otherwise.
func DefinesFromPairs(pairs []DefinePair) List {
	out := make(List, 0, len(pairs))
	for _, p := range pairs {
		if p.Value == "" {
			out = append(out, DefineFlag(p.Name))
			continue
		}
		out = append(out, DefineFlag(fmt.Sprintf("%s=%s", p.Name, p.Value)))
	}
	return out
}
