package transform

import (
	"context"
	"math"
	"strings"

	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/selection"
)

// 1-bit quantization correction factors, inherited from the old Glish
// program (updated 20 Nov 2015). They are physical constants and must not
// be re-derived.
const factor1b1b = math.Pi / 2.0 / 1.1329552

var factor1b2b = math.Sqrt(factor1b1b)

// Scale1Bit corrects quantization losses on baselines involving 1-bit
// sampled antennas. Rows where both endpoints are listed are scaled by
// the two-antenna factor, rows with exactly one listed endpoint by its
// square root; autocorrelations are never scaled. WithUndo applies the
// reciprocal factors, and WithScaleWeights(false) restricts the scaling to
// the DATA column.
func (ms *MS) Scale1Bit(ctx context.Context, antennas []string, opts ...Option) error {
	o := newOptions(opts)

	ants, err := antennaIndices(ms.tbl, antennas)
	if err != nil {
		return err
	}
	targets := selection.NewAntennaSet(ants...)

	factorBoth := factor1b1b
	factorOne := factor1b2b
	if o.undo {
		factorBoth = 1.0 / factorBoth
		factorOne = 1.0 / factorOne
	}

	scaleSet := []string{mstable.ColData}
	if o.scaleWeights {
		scaleSet = append(scaleSet, mstable.ColWeight)
	}
	columns := presentColumns(ms.tbl, scaleSet)
	if len(columns) == 0 {
		o.logger.Infof("no data columns present in %s, nothing to do", ms.tbl.Name())
		return nil
	}
	o.logger.Infof("The following columns will be modified: %s.", strings.Join(columns, ", "))

	r := &runner{tbl: ms.tbl, opts: o}
	err = r.each(ctx, func(start, n int) error {
		ant1, err := readInts(ms.tbl, mstable.ColAntenna1, start, n)
		if err != nil {
			return err
		}
		ant2, err := readInts(ms.tbl, mstable.ColAntenna2, start, n)
		if err != nil {
			return err
		}
		cats := selection.Classify(ant1, ant2, targets)
		if cats.IsEmpty() {
			return nil
		}
		bothRows := selection.Rows(cats.Both)
		oneRows := selection.Rows(cats.One)
		for _, name := range columns {
			col, err := ms.tbl.GetColumn(name, start, n)
			if err != nil {
				return err
			}
			if len(bothRows) > 0 {
				if err := col.ScaleRows(bothRows, factorBoth); err != nil {
					return err
				}
			}
			if len(oneRows) > 0 {
				if err := col.ScaleRows(oneRows, factorOne); err != nil {
					return err
				}
			}
			if err := ms.tbl.PutColumn(name, col, start, n); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	verb := "scaled"
	if o.undo {
		verb = "unscaled"
	}
	o.logger.Infof("1-bit %s for %s in %s done.", verb, strings.Join(antennas, ", "), ms.tbl.Name())
	return nil
}
