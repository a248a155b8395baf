package transform

import (
	"fmt"
	"strings"

	"github.com/bmarcote/mstools/mjd"
	"github.com/bmarcote/mstools/mstable"
	"github.com/bmarcote/mstools/selection"
	"github.com/bmarcote/mstools/stokes"
)

// Each transform resolves only the metadata it needs, straight from the
// keyword subtables; nothing is cached across invocations.

// antennaIndices maps antenna names (case insensitive) to their row
// indices in the ANTENNA subtable.
func antennaIndices(tbl mstable.Table, names []string) ([]int32, error) {
	sub, err := tbl.Keyword(mstable.KwAntenna)
	if err != nil {
		return nil, err
	}
	col, err := sub.GetColumn(mstable.ColName, 0, sub.NumRows())
	if err != nil {
		return nil, err
	}
	known, err := mstable.Values[string](col)
	if err != nil {
		return nil, err
	}

	indices := make([]int32, 0, len(names))
	for _, name := range names {
		found := false
		for i, k := range known {
			if strings.EqualFold(k, name) {
				indices = append(indices, int32(i))
				found = true
				break
			}
		}
		if !found {
			return nil, &ErrUnknownAntenna{Name: name, Known: known}
		}
	}
	return indices, nil
}

// corrTypes returns the Stokes codes of the polarization setup.
func corrTypes(tbl mstable.Table) ([]stokes.Code, error) {
	sub, err := tbl.Keyword(mstable.KwPolarization)
	if err != nil {
		return nil, err
	}
	col, err := sub.GetColumn(mstable.ColCorrType, 0, 1)
	if err != nil {
		return nil, err
	}
	raw, err := mstable.Values[int32](col)
	if err != nil {
		return nil, err
	}
	codes := make([]stokes.Code, len(raw))
	for i, v := range raw {
		codes[i] = stokes.Code(v)
	}
	return codes, nil
}

// corrProducts returns the CORR_PRODUCT definition table: one
// (ant1-pol, ant2-pol) code pair per correlation index.
func corrProducts(tbl mstable.Table) ([][2]int32, error) {
	sub, err := tbl.Keyword(mstable.KwPolarization)
	if err != nil {
		return nil, err
	}
	col, err := sub.GetColumn(mstable.ColCorrProduct, 0, 1)
	if err != nil {
		return nil, err
	}
	shape := col.Shape()
	if col.Rank() != 3 || shape[2] != 2 {
		return nil, fmt.Errorf("CORR_PRODUCT: unexpected shape %v", shape)
	}
	raw, err := mstable.Values[int32](col)
	if err != nil {
		return nil, err
	}
	products := make([][2]int32, shape[1])
	for i := range products {
		products[i] = [2]int32{raw[2*i], raw[2*i+1]}
	}
	return products, nil
}

// obsWindow builds the selection time window: explicit bounds when given,
// otherwise the observation's recorded time range widened by one second on
// each side.
func obsWindow(tbl mstable.Table, o options) (selection.Window, error) {
	sub, err := tbl.Keyword(mstable.KwObservation)
	if err != nil {
		return selection.Window{}, err
	}
	col, err := sub.GetColumn(mstable.ColTimeRange, 0, 1)
	if err != nil {
		return selection.Window{}, err
	}
	tr, err := mstable.Values[float64](col)
	if err != nil {
		return selection.Window{}, err
	}
	if len(tr) != 2 {
		return selection.Window{}, fmt.Errorf("TIME_RANGE: expected 2 values, got %d", len(tr))
	}
	w := selection.Window{Start: tr[0] - 1, End: tr[1] + 1}
	if o.start != nil {
		w.Start = mjd.FromTime(*o.start)
	}
	if o.end != nil {
		w.End = mjd.FromTime(*o.end)
	}
	return w, nil
}
