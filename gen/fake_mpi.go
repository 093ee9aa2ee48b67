package gen

import "path"

func init() {
	Register("fake_mpi", func() Generator { return &FakeMPIGenerator{} })
}

// FakeSystemDir holds headers that shadow system ones.
const FakeSystemDir = "fake-system"

// FakeMPIHeader stands in for mpi.h when the system one isn't wanted. Only
// lammps_open needs MPI_Comm, and it is left out of the bindings.
const FakeMPIHeader = `#ifndef LAMMPSYS_FAKE_MPI_H
#define LAMMPSYS_FAKE_MPI_H

/* Generated by lammpsys. Lets library.h parse without an MPI installation. */
struct MPI_Comm {};
typedef struct MPI_Comm MPI_Comm;

#endif
`

// FakeMPIGenerator writes the stub mpi.h next to the bindings so cgo
// compiles against the same header the preprocessor saw.
type FakeMPIGenerator struct{}

func (g *FakeMPIGenerator) Name() string { return "fake_mpi" }

func (g *FakeMPIGenerator) Generate(ctx *Context) ([]*OutputFile, error) {
	return []*OutputFile{
		{Path: path.Join(FakeSystemDir, "mpi.h"), Content: []byte(FakeMPIHeader)},
	}, nil
}
