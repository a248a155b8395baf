package transform

import (
	"context"
	"iter"

	"github.com/bmarcote/mstools/mstable"
)

// chunks yields non-overlapping (start, n) row windows covering
// [0, total) exactly once, in increasing order.
func chunks(total, size int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for start := 0; start < total; start += size {
			if !yield(start, min(size, total-start)) {
				return
			}
		}
	}
}

// runner drives the sequential chunk loop shared by all transforms.
// Cancellation is checked between chunks only; once fn starts on a chunk
// it runs to completion.
type runner struct {
	tbl  mstable.Table
	opts options
}

func (r *runner) each(ctx context.Context, fn func(start, n int) error) error {
	total := r.tbl.NumRows()
	for start, n := range chunks(total, r.opts.chunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(start, n); err != nil {
			return err
		}
		if r.opts.progress != nil {
			r.opts.progress(start+n, total)
		}
	}
	return nil
}

// transformColumns is the fixed vocabulary of data columns a transform may
// touch, in write-back order. Presence varies per table.
var transformColumns = []string{
	mstable.ColData,
	mstable.ColFloatData,
	mstable.ColFlag,
	mstable.ColSigmaSpectrum,
	mstable.ColWeightSpectrum,
	mstable.ColWeight,
	mstable.ColSigma,
}

// presentColumns narrows a column vocabulary to what the table actually
// has, preserving order.
func presentColumns(tbl mstable.Table, names []string) []string {
	var present []string
	for _, name := range names {
		if tbl.HasColumn(name) {
			present = append(present, name)
		}
	}
	return present
}

func readInts(tbl mstable.Table, name string, start, n int) ([]int32, error) {
	col, err := tbl.GetColumn(name, start, n)
	if err != nil {
		return nil, err
	}
	return mstable.Values[int32](col)
}

func readFloats(tbl mstable.Table, name string, start, n int) ([]float64, error) {
	col, err := tbl.GetColumn(name, start, n)
	if err != nil {
		return nil, err
	}
	return mstable.Values[float64](col)
}
