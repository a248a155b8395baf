package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/selection"
)

// InvertSubband reverses the frequency axis of every present data column
// for the baselines of the given antennas, correcting subbands recorded in
// the wrong spectral order.
//
// The chunk is processed once per antenna position, so an autocorrelation
// of a target antenna is reversed twice and ends up unchanged; baselines
// between two different target antennas are likewise reversed twice.
// Columns without a frequency axis have
// their last axis reversed all the same (the per-polarization WEIGHT and
// SIGMA columns), and flat columns are a shape error.
func (ms *MS) InvertSubband(ctx context.Context, antennas []string, opts ...Option) error {
	o := newOptions(opts)

	ants, err := antennaIndices(ms.tbl, antennas)
	if err != nil {
		return err
	}
	targets := selection.NewAntennaSet(ants...)

	window, err := obsWindow(ms.tbl, o)
	if err != nil {
		return err
	}

	columns := presentColumns(ms.tbl, transformColumns)
	if len(columns) == 0 {
		o.logger.Infof("no data columns present in %s, nothing to do", ms.tbl.Name())
		return nil
	}
	o.logger.Infof("The following columns will be modified: %s.", strings.Join(columns, ", "))

	r := &runner{tbl: ms.tbl, opts: o}
	err = r.each(ctx, func(start, n int) error {
		for _, antCol := range []string{mstable.ColAntenna1, mstable.ColAntenna2} {
			chunkAnts, err := readInts(ms.tbl, antCol, start, n)
			if err != nil {
				return err
			}
			times, err := readFloats(ms.tbl, mstable.ColTime, start, n)
			if err != nil {
				return err
			}
			mask := selection.Mask(chunkAnts, times, targets, window)
			if mask.IsEmpty() {
				continue
			}
			rows := selection.Rows(mask)
			for _, name := range columns {
				col, err := ms.tbl.GetColumn(name, start, n)
				if err != nil {
					return err
				}
				if err := col.ReverseLast(rows); err != nil {
					return fmt.Errorf("column %s: %w", name, err)
				}
				if err := ms.tbl.PutColumn(name, col, start, n); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	o.logger.Infof("Subbands inverted for %s in %s.", strings.Join(antennas, ", "), ms.tbl.Name())
	return nil
}
