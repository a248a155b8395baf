package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/selection"
	"github.com/bmarcote/mstools/stokes"
)

// CopyPol overwrites one polarization of an antenna with the data of the
// other: polFrom names the surviving hand (R, L, X or Y, case
// insensitive). Useful to recover intensity maps when one polarization
// channel is broken, since downstream tooling dislikes single-pol
// antennas. The source slices are left byte-identical; only the
// destination slices change.
func (ms *MS) CopyPol(ctx context.Context, antenna, polFrom string, opts ...Option) error {
	o := newOptions(opts)

	hand, err := stokes.ParseHand(polFrom)
	if err != nil {
		return err
	}

	ants, err := antennaIndices(ms.tbl, []string{antenna})
	if err != nil {
		return err
	}
	target := selection.NewAntennaSet(ants...)

	codes, err := corrTypes(ms.tbl)
	if err != nil {
		return err
	}
	for _, c := range codes {
		if !stokes.IsCorrelation(c) {
			return fmt.Errorf("copypol only works for circular or linear polarizations: %w",
				&stokes.ErrInvalidSet{Codes: codes})
		}
	}

	products, err := corrProducts(ms.tbl)
	if err != nil {
		return err
	}
	copies := [2][]polCopy{
		deriveCopies(products, 0, hand),
		deriveCopies(products, 1, hand),
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
			mask := selection.MatchAntennas(chunkAnts, target)
			if mask.IsEmpty() {
				continue
			}
			rows := selection.Rows(mask)
			for _, name := range columns {
				col, err := ms.tbl.GetColumn(name, start, n)
				if err != nil {
					return err
				}
				for _, c := range copies[antPos] {
					if err := col.CopyPol(rows, c.src, c.dst); err != nil {
						return fmt.Errorf("column %s: %w", name, err)
					}
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
