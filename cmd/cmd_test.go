package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/makefile"
)

// resetFlags puts every flag back to its default so commands can run more
// than once in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := Execute()
	return out.String(), err
}

func TestFlags_Args(t *testing.T) {
	out, err := run(t, "flags", "--relative-to", "/base", "--", "-Da", "-Lb", "-lc", "-Id", "other1", "-lc2")
	require.NoError(t, err)
	assert.Equal(t, "-Da -L/base/b -lc -I/base/d other1 -lc2\n", out)
}

func TestFlags_RelativeBase(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	out, err := run(t, "flags", "--relative-to", "src/MAKE", "--", "-I", "../STUBS", "-lmpi_stubs")
	require.NoError(t, err)
	assert.Equal(t, "-I"+filepath.Join(wd, "src", "STUBS")+" -lmpi_stubs\n", out)

	again, err := run(t, "flags", "--relative-to", "src/MAKE", "--", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestFlags_Space(t *testing.T) {
	out, err := run(t, "flags", "--space", "--", "-liberty", "-Wall")
	require.NoError(t, err)
	assert.Equal(t, "-l iberty -Wall\n", out)
}

func TestFlags_Kind(t *testing.T) {
	out, err := run(t, "flags", "--kind", "lib,lib-dir", "--", "-DFOO", "-L", "/opt/lib", "-lm", "-pthread")
	require.NoError(t, err)
	assert.Equal(t, "-L/opt/lib -lm\n", out)

	_, err = run(t, "flags", "--kind", "shared", "--", "-lm")
	assert.Error(t, err)
}

func TestFlags_Malformed(t *testing.T) {
	_, err := run(t, "flags", "--", "-DFOO", "-I")
	assert.ErrorIs(t, err, ccflags.ErrMalformedOption)
}

func TestFlags_Makefile(t *testing.T) {
	out, err := run(t, "flags", "--makefile", "../testdata/Makefile.lammps", "--var", "MPI_INC", "--var", "MPI_PATH,MPI_LIB")
	require.NoError(t, err)
	assert.Equal(t, "-I../STUBS -L../STUBS -lmpi_stubs\n", out)

	_, err = run(t, "flags", "--makefile", "../testdata/Makefile.lammps", "--var", "NOPE")
	assert.ErrorIs(t, err, ccflags.ErrUnknownVariable)

	_, err = run(t, "flags", "--makefile", "../testdata/Makefile.lammps")
	assert.Error(t, err)
}

func TestMakefile_GetSet(t *testing.T) {
	orig, err := os.ReadFile("../testdata/Makefile.lammps")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "Makefile.go")
	require.NoError(t, os.WriteFile(path, orig, 0644))

	out, err := run(t, "makefile", "get", path, "LMP_INC")
	require.NoError(t, err)
	assert.Equal(t, "-DLAMMPS_GZIP\n", out)

	out, err = run(t, "makefile", "get", "--flags", "--space", path, "MPI_LIB")
	require.NoError(t, err)
	assert.Equal(t, "-l mpi_stubs\n", out)

	_, err = run(t, "makefile", "set", "--flags", path, "LMP_INC", "--", "-D", "BAZ", "-DLAMMPS_GZIP")
	require.NoError(t, err)

	mk, err := makefile.Load(path)
	require.NoError(t, err)
	text, err := mk.Text("LMP_INC")
	require.NoError(t, err)
	assert.Equal(t, "-DBAZ -DLAMMPS_GZIP", text)

	origLines := strings.Split(string(orig), "\n")
	gotLines := strings.Split(mk.String(), "\n")
	require.Len(t, gotLines, len(origLines))
	for i := range origLines {
		if strings.HasPrefix(origLines[i], "LMP_INC") {
			continue
		}
		assert.Equal(t, origLines[i], gotLines[i], "line %d", i+1)
	}
}

func TestMakefile_SetOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "MINE", "Makefile.go")
	_, err := run(t, "makefile", "set", "-o", out, "../testdata/Makefile.lammps", "FFT_INC", "--", "-DFFT_KISS")
	require.NoError(t, err)

	mk, err := makefile.Load(out)
	require.NoError(t, err)
	text, err := mk.Text("FFT_INC")
	require.NoError(t, err)
	assert.Equal(t, "-DFFT_KISS", text)

	// the input is untouched
	src, err := makefile.Load("../testdata/Makefile.lammps")
	require.NoError(t, err)
	text, err = src.Text("FFT_INC")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestMakefile_SetContinuedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Makefile")
	require.NoError(t, os.WriteFile(path, []byte("LMP_INC = -DFOO\n"), 0644))

	_, err := run(t, "makefile", "set", path, "LMP_INC", "--", `-DBAR \`)
	assert.ErrorIs(t, err, ccflags.ErrContinuedLine)
}

func TestInitThenValidate(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "init", "-q", "-o", dir, "--packages", "molecule,kspace", "--features", "exceptions")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "lammpsys.yaml"))
	assert.FileExists(t, filepath.Join(dir, "build-data", "Makefile.lammps"))

	_, err = run(t, "validate", "-q", filepath.Join(dir, "lammpsys.yaml"))
	require.NoError(t, err)

	// a second init keeps edited files
	cfgPath := filepath.Join(dir, "lammpsys.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("source: system\n"), 0644))
	_, err = run(t, "init", "-q", "-o", dir)
	require.NoError(t, err)
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "source: system\n", string(data))
}

func TestInit_BadSource(t *testing.T) {
	_, err := run(t, "init", "-q", "-o", t.TempDir(), "--source", "download")
	assert.Error(t, err)
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lammpsys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: build\n"), 0644))

	_, err := run(t, "validate", "-q", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lammps.makefile")
}

func TestValidate_Missing(t *testing.T) {
	_, err := run(t, "validate", "-q", filepath.Join(t.TempDir(), "lammpsys.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "lammpsys dev\n", out)
}

func TestDumpSchema(t *testing.T) {
	out, err := run(t, "dump-schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "lammpsys configuration"`)
}
