package transform

import (
	"context"
	"fmt"
	"slices"

	"github.com/bmarcote/mstools/mstable"
)

// weightEpsilon separates genuinely zero weights from data that carried a
// usable weight before being flagged.
const weightEpsilon = 0.001

// FlagWeights flags every element whose weight falls below threshold:
// new_flag = old_flag OR (weight < threshold). The threshold must lie in
// (0, 1). Per-channel WEIGHT_SPECTRUM is used when present; otherwise the
// per-polarization WEIGHT is broadcast across the frequency axis.
//
// The scan always covers the whole table (no antenna or time selector)
// and always accumulates statistics; WithDryRun skips the write-back so
// the flags can be reviewed before committing.
func (ms *MS) FlagWeights(ctx context.Context, threshold float64, opts ...Option) (*FlagStats, error) {
	o := newOptions(opts)

	if threshold <= 0 || threshold >= 1 {
		return nil, ErrThreshold
	}

	weightCol := mstable.ColWeight
	if ms.tbl.HasColumn(mstable.ColWeightSpectrum) {
		weightCol = mstable.ColWeightSpectrum
	}

	stats := &FlagStats{}
	r := &runner{tbl: ms.tbl, opts: o}
	err := r.each(ctx, func(start, n int) error {
		flagCol, err := ms.tbl.GetColumn(mstable.ColFlag, start, n)
		if err != nil {
			return err
		}
		flags, ok := flagCol.(*mstable.Dense[bool])
		if !ok {
			return fmt.Errorf("column FLAG: holds %s, expected bool", flagCol.DType())
		}
		wCol, err := ms.tbl.GetColumn(weightCol, start, n)
		if err != nil {
			return err
		}
		weights, ok := wCol.(*mstable.Dense[float32])
		if !ok {
			return fmt.Errorf("column %s: holds %s, expected float32", weightCol, wCol.DType())
		}

		if err := applyThreshold(flags, weights, threshold, stats); err != nil {
			return err
		}
		if o.apply {
			return ms.tbl.PutColumn(mstable.ColFlag, flags, start, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.logger.Infof("%.2f%% total vis. flagged (%.2f%% to flag in this execution).",
		stats.PctTotal(), stats.PctNew())
	o.logger.Infof("%.2f%% data with non-zero weights flagged.", stats.PctNonZero())
	if o.apply {
		o.logger.Infof("Flags have been applied.")
	} else {
		o.logger.Infof("Flags have not been applied (dry run).")
	}
	return stats, nil
}

// applyThreshold ORs the weight predicate into the flags in place and
// folds the chunk counters into stats. The weight column either matches
// the flag shape exactly or is a per-polarization column broadcast across
// the frequency axis of rank-3 flags.
func applyThreshold(flags *mstable.Dense[bool], weights *mstable.Dense[float32], threshold float64, stats *FlagStats) error {
	fdata := flags.Data()
	wdata := weights.Data()
	stats.Total += int64(len(fdata))

	fold := func(i int, w float32) {
		if fdata[i] {
			stats.Before++
		}
		if float64(w) < threshold {
			fdata[i] = true
		}
		if fdata[i] {
			stats.After++
			if w > weightEpsilon {
				stats.NonZero++
			}
		}
	}

	fshape, wshape := flags.Shape(), weights.Shape()
	switch {
	case slices.Equal(fshape, wshape):
		for i, w := range wdata {
			fold(i, w)
		}
	case len(fshape) == 3 && len(wshape) == 2 && fshape[0] == wshape[0] && fshape[1] == wshape[1]:
		npol, nfreq := fshape[1], fshape[2]
		for r := 0; r < fshape[0]; r++ {
			for p := 0; p < npol; p++ {
				w := wdata[r*npol+p]
				base := (r*npol + p) * nfreq
				for f := 0; f < nfreq; f++ {
					fold(base+f, w)
				}
			}
		}
	default:
		return &mstable.ShapeError{Op: "flag by weight", Shape: wshape}
	}
	return nil
}
