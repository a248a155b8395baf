// Package mstable defines the table accessor contract the transform engine
// is written against, plus two implementations: an in-memory table used for
// tests and synthesis, and an out-of-core disk table with one binary file
// per column.
//
// A table is an ordered sequence of rows. Scalar bookkeeping columns
// (ANTENNA1, ANTENNA2, TIME) are rank-1; data columns carry a fixed cell
// shape per row, [npol] or [npol, nfreq]. Auxiliary metadata lives in
// keyword subtables (ANTENNA, POLARIZATION, OBSERVATION, FIELD, ...), which
// are themselves tables.
package mstable

import (
	"errors"
	"fmt"
)

// Main-table column names. Presence of the data columns varies per table
// and must be probed with HasColumn, never assumed.
const (
	ColData           = "DATA"
	ColFloatData      = "FLOAT_DATA"
	ColFlag           = "FLAG"
	ColSigmaSpectrum  = "SIGMA_SPECTRUM"
	ColWeightSpectrum = "WEIGHT_SPECTRUM"
	ColWeight         = "WEIGHT"
	ColSigma          = "SIGMA"
	ColAntenna1       = "ANTENNA1"
	ColAntenna2       = "ANTENNA2"
	ColTime           = "TIME"
)

// Keyword subtable names.
const (
	KwAntenna         = "ANTENNA"
	KwPolarization    = "POLARIZATION"
	KwObservation     = "OBSERVATION"
	KwField           = "FIELD"
	KwSpectralWindow  = "SPECTRAL_WINDOW"
	KwDataDescription = "DATA_DESCRIPTION"
)

// Subtable column names.
const (
	ColName           = "NAME"
	ColCorrType       = "CORR_TYPE"
	ColCorrProduct    = "CORR_PRODUCT"
	ColTimeRange      = "TIME_RANGE"
	ColProject        = "PROJECT"
	ColObserver       = "OBSERVER"
	ColPhaseDir       = "PHASE_DIR"
	ColNumChan        = "NUM_CHAN"
	ColChanFreq       = "CHAN_FREQ"
	ColTotalBandwidth = "TOTAL_BANDWIDTH"
	ColSpectralWindow = "SPECTRAL_WINDOW_ID"
)

var (
	// ErrReadOnly is returned by mutating calls on a read-only table.
	ErrReadOnly = errors.New("table is open read-only")
)

// ErrColumnNotFound reports a missing column.
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("column %s not found", e.Column)
}

// ErrKeywordNotFound reports a missing keyword subtable.
type ErrKeywordNotFound struct {
	Keyword string
}

func (e *ErrKeywordNotFound) Error() string {
	return fmt.Sprintf("keyword table %s not found", e.Keyword)
}

// Table is the accessor contract for a measurement-set style table.
//
// Chunked access: GetColumn returns a private copy of the rows [start,
// start+n); mutations become visible only through PutColumn over the same
// range. Implementations are not required to be safe for concurrent use;
// the transform engine owns a table exclusively for the duration of an
// invocation.
type Table interface {
	// Name identifies the table for error and log messages.
	Name() string
	NumRows() int

	ColumnNames() []string
	HasColumn(name string) bool

	// GetColumn reads the rows [start, start+n) of a column.
	GetColumn(name string, start, n int) (Column, error)
	// PutColumn replaces the rows [start, start+n) of a column. The column
	// row count must equal n and the cell shape must match.
	PutColumn(name string, col Column, start, n int) error

	// Keyword opens a keyword subtable. The handle shares the lifetime of
	// the parent table.
	Keyword(name string) (Table, error)
	KeywordNames() []string

	Close() error
}

func checkRange(t Table, start, n int) error {
	if start < 0 || n < 0 || start+n > t.NumRows() {
		return fmt.Errorf("row range [%d, %d) out of bounds (nrows=%d)", start, start+n, t.NumRows())
	}
	return nil
}

func checkPut(t Table, col Column, start, n int) error {
	if err := checkRange(t, start, n); err != nil {
		return err
	}
	if col.NumRows() != n {
		return fmt.Errorf("column carries %d rows, expected %d", col.NumRows(), n)
	}
	return nil
}
