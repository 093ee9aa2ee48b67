package gen

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	Register("bindings", func() Generator { return &BindingsGenerator{} })
}

// BindingsGenerator lists the bound C functions for the Go package and
// writes the link line for other build systems.
type BindingsGenerator struct{}

func (g *BindingsGenerator) Name() string { return "bindings" }

func (g *BindingsGenerator) Generate(ctx *Context) ([]*OutputFile, error) {
	if ctx.Meta == nil {
		return nil, fmt.Errorf("no build metadata")
	}
	pkg := ctx.Package()

	var b strings.Builder
	writeGeneratedHeader(&b, ctx.Meta)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("// Functions holds the prototypes of the C functions available through\n")
	b.WriteString("// this package's cgo preamble, in header order.\n")
	b.WriteString("var Functions = []string{\n")
	for _, fn := range ctx.Functions {
		fmt.Fprintf(&b, "\t%s,\n", strconv.Quote(fn.Prototype))
	}
	b.WriteString("}\n")

	link := ctx.Meta.LinkFlags.WithSpace() + "\n"

	return []*OutputFile{
		{Path: pkg + "_funcs.go", Content: []byte(b.String())},
		{Path: pkg + "_link.txt", Content: []byte(link)},
	}, nil
}
