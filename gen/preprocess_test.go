package gen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/model"
)

// fakeCPP writes a cpp stand-in that records its arguments one per line in
// args.txt, then echoes the input file and a canned declaration.
func fakeCPP(t *testing.T) (cppPath, argsPath string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	dir := t.TempDir()
	cppPath = filepath.Join(dir, "cpp")
	argsPath = filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > " + argsPath + "\n" +
		"for a; do last=$a; done\n" +
		"echo \"# 1 \\\"$last\\\"\"\n" +
		"cat \"$last\"\n" +
		"echo 'int lammps_version(void *);'\n"
	if err := os.WriteFile(cppPath, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return cppPath, argsPath
}

func TestPreprocessFlags(t *testing.T) {
	meta := &model.BuildMeta{
		Defines:     ccflags.MustParse("-DLAMMPS_GZIP -I/repo/src/STUBS"),
		IncludeDirs: ccflags.MustParse("-I/repo"),
		SourceDir:   "/repo",
	}
	got := PreprocessFlags(meta).WithoutSpace()
	want := "-DLAMMPS_GZIP -I/repo/src/STUBS -I/repo -I/repo/src/STUBS"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	meta.SourceDir = ""
	if got := PreprocessFlags(meta).WithoutSpace(); got != "-DLAMMPS_GZIP -I/repo/src/STUBS -I/repo" {
		t.Errorf("system build should not add STUBS, got %q", got)
	}
}

func TestPreprocess(t *testing.T) {
	cpp, argsPath := fakeCPP(t)

	out, err := Preprocess(context.Background(), &PreprocessConfig{
		CPPPath: cpp,
		Header:  "lammps/library.h",
		Flags:   ccflags.MustParse("-DLAMMPS_SMALLBIG -I /opt/lammps/include"),
		FakeMPI: true,
	})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if !strings.Contains(out, "#include <lammps/library.h>") {
		t.Errorf("wrapper not passed to cpp, output:\n%s", out)
	}

	data, err := os.ReadFile(argsPath)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %q", args)
	}
	if !strings.HasPrefix(args[0], "-I") || filepath.Base(args[0]) != FakeSystemDir {
		t.Errorf("fake system dir must come first, got %q", args[0])
	}
	if diff := cmp.Diff([]string{"-DLAMMPS_SMALLBIG", "-I/opt/lammps/include"}, args[1:3]); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(args[3]) != wrapperName {
		t.Errorf("last arg should be the wrapper, got %q", args[3])
	}

	funcs, err := ScanFunctions(out, "^lammps.*", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(funcs) != 1 || funcs[0].Name != "lammps_version" {
		t.Errorf("unexpected functions: %+v", funcs)
	}
}

func TestPreprocess_SystemMPI(t *testing.T) {
	cpp, argsPath := fakeCPP(t)

	_, err := Preprocess(context.Background(), &PreprocessConfig{
		CPPPath: cpp,
		Header:  "lammps/library.h",
		Flags:   ccflags.MustParse("-I/usr/include/mpich"),
	})
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	data, err := os.ReadFile(argsPath)
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Split(strings.TrimSpace(string(data)), "\n")
	if args[0] != "-I/usr/include/mpich" {
		t.Errorf("expected no fake include dir, got %q", args)
	}
}

func TestPreprocess_Failure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	cpp := filepath.Join(t.TempDir(), "cpp")
	script := "#!/bin/sh\necho 'library.h: No such file or directory' >&2\nexit 1\n"
	if err := os.WriteFile(cpp, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := Preprocess(context.Background(), &PreprocessConfig{CPPPath: cpp, Header: "library.h"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Errorf("stderr missing from error: %v", err)
	}
}

func TestPreprocess_DryRun(t *testing.T) {
	out, err := Preprocess(context.Background(), &PreprocessConfig{
		CPPPath: "/nonexistent/cpp",
		Header:  "lammps/library.h",
		DryRun:  true,
	})
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if out != "" {
		t.Errorf("dry run produced output %q", out)
	}
}
