package transform

import (
	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/stokes"
)

// MS binds a resolved table handle to the transform operations. The handle
// is exclusively owned: running two invocations against the same table
// concurrently is unsafe (any lock discipline belongs to the table
// implementation).
type MS struct {
	tbl mstable.Table
}

// New wraps an already-open table.
func New(tbl mstable.Table) *MS {
	return &MS{tbl: tbl}
}

// Open opens an on-disk table read-write.
func Open(dir string) (*MS, error) {
	tbl, err := mstable.OpenDisk(dir, false)
	if err != nil {
		return nil, err
	}
	return &MS{tbl: tbl}, nil
}

// Table exposes the underlying handle.
func (ms *MS) Table() mstable.Table { return ms.tbl }

// Close closes the underlying table.
func (ms *MS) Close() error { return ms.tbl.Close() }

// Polarizations lists the Stokes products recorded in the POLARIZATION
// subtable.
func (ms *MS) Polarizations() ([]stokes.Code, error) {
	return corrTypes(ms.tbl)
}
