package gen

import (
	"fmt"
	"strings"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/model"
)

func init() {
	Register("cgo_flags", func() Generator { return &CgoFlagsGenerator{} })
}

// CgoFlagsGenerator produces the cgo preamble that compiles against and
// links liblammps, plus a header that other cgo files in the package include
// to see the C API without knowing where it was installed.
type CgoFlagsGenerator struct{}

func (g *CgoFlagsGenerator) Name() string { return "cgo_flags" }

func (g *CgoFlagsGenerator) Generate(ctx *Context) ([]*OutputFile, error) {
	if ctx.Meta == nil {
		return nil, fmt.Errorf("no build metadata")
	}
	pkg := ctx.Package()

	var b strings.Builder
	writeGeneratedHeader(&b, ctx.Meta)
	fmt.Fprintf(&b, "package %s\n\n", pkg)

	b.WriteString("/*\n")
	if cflags := CgoCFlags(ctx.Config, ctx.Meta); len(cflags) > 0 {
		fmt.Fprintf(&b, "#cgo CFLAGS: %s\n", cflags.WithoutSpace())
	}
	if len(ctx.Meta.LinkFlags) > 0 {
		fmt.Fprintf(&b, "#cgo LDFLAGS: %s\n", ctx.Meta.LinkFlags.WithoutSpace())
	}
	fmt.Fprintf(&b, "#include \"%s\"\n", IncludeHeaderName(pkg))
	b.WriteString("*/\n")
	b.WriteString("import \"C\"\n")

	guard := strings.ToUpper(pkg) + "_LIBRARY_H"
	var h strings.Builder
	h.WriteString("/* Code generated by lammpsys. DO NOT EDIT. */\n")
	fmt.Fprintf(&h, "#ifndef %s\n", guard)
	fmt.Fprintf(&h, "#define %s\n\n", guard)
	fmt.Fprintf(&h, "#include <%s>\n\n", ctx.Meta.Header)
	h.WriteString("#endif\n")

	return []*OutputFile{
		{Path: pkg + "_cgo.go", Content: []byte(b.String())},
		{Path: IncludeHeaderName(pkg), Content: []byte(h.String())},
	}, nil
}

// IncludeHeaderName is the generated header that includes the C API.
func IncludeHeaderName(pkg string) string {
	return pkg + "_library.h"
}

// CgoCFlags returns the compile flags for the cgo preamble: the generated
// fake-system directory first unless the system MPI is used, then the same
// flags the preprocessor was given.
func CgoCFlags(cfg *model.Config, meta *model.BuildMeta) ccflags.List {
	var flags ccflags.List
	if !cfg.HasFeature(model.FeatureSystemMPI) {
		flags = append(flags, ccflags.IncludeDirFlag("${SRCDIR}/"+FakeSystemDir))
	}
	return ccflags.Concat(flags, PreprocessFlags(meta))
}

// writeGeneratedHeader writes the standard generated-code marker.
func writeGeneratedHeader(b *strings.Builder, meta *model.BuildMeta) {
	b.WriteString("// Code generated by lammpsys. DO NOT EDIT.\n")
	if meta.Origin != "" {
		fmt.Fprintf(b, "// liblammps: %s\n", meta.Origin)
	}
	b.WriteString("\n")
}
