package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/selection"
	"github.com/bmarcote/mstools/stokes"
)

// PolSwap swaps the polarization labels of one antenna: data recorded as
// R is relabeled L and vice versa (X/Y for linear setups), for every
// baseline involving the antenna within the time window.
//
// The two antenna positions of a baseline carry different permutations, so
// the chunk is processed once per position. An autocorrelation of the
// target antenna matches both rules and is permuted twice, which flips
// both hands (RR and LL trade places, as do RL and LR). That sequential
// behavior is intentional and mirrors the established polswap convention.
func (ms *MS) PolSwap(ctx context.Context, antenna string, opts ...Option) error {
	o := newOptions(opts)

	ants, err := antennaIndices(ms.tbl, []string{antenna})
	if err != nil {
		return err
	}
	target := selection.NewAntennaSet(ants...)

	codes, err := corrTypes(ms.tbl)
	if err != nil {
		return err
	}
	if _, err := stokes.ValidateSet(codes); err != nil {
		return fmt.Errorf("polswap only works for circular or linear polarizations: %w", err)
	}

	products, err := corrProducts(ms.tbl)
	if err != nil {
		return err
	}
	perms := make([][]int, 2)
	for antPos := range perms {
		if perms[antPos], err = deriveSwap(products, antPos); err != nil {
			return err
		}
	}

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
		for antPos, antCol := range []string{mstable.ColAntenna1, mstable.ColAntenna2} {
			chunkAnts, err := readInts(ms.tbl, antCol, start, n)
			if err != nil {
				return err
			}
			times, err := readFloats(ms.tbl, mstable.ColTime, start, n)
			if err != nil {
				return err
			}
			mask := selection.Mask(chunkAnts, times, target, window)
			if mask.IsEmpty() {
				continue
			}
			rows := selection.Rows(mask)
			for _, name := range columns {
				col, err := ms.tbl.GetColumn(name, start, n)
				if err != nil {
					return err
				}
				if err := col.PermutePol(rows, perms[antPos]); err != nil {
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

	o.logger.Infof("%s modified correctly.", ms.tbl.Name())
	return nil
}
