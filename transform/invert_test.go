package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmarcote/mstools/mstable"
)

func TestInvertSubband(t *testing.T) {
	ms, tbl := newTestMS(t, 2)
	nrow := tbl.NumRows()

	require.NoError(t, ms.InvertSubband(context.Background(), []string{"JB"}, WithChunkSize(5)))

	cross := rowsWith(nrow, func(a1, a2 int32) bool {
		return a1 != a2 && (a1 == 1 || a2 == 1)
	})

	data := colValues[complex64](t, tbl, mstable.ColData)
	weights := colValues[float32](t, tbl, mstable.ColWeight)
	for r := 0; r < nrow; r++ {
		for p := 0; p < testNPol; p++ {
			for c := 0; c < testNFreq; c++ {
				wantChan := c
				if cross[r] {
					wantChan = testNFreq - 1 - c
				}
				assert.Equal(t, dataValue(r, p, wantChan), data[(r*testNPol+p)*testNFreq+c],
					"row %d pol %d chan %d", r, p, c)
			}
			// Per-polarization columns have their last axis reversed too;
			// that is the established behavior for rank-2 columns.
			wantPol := p
			if cross[r] {
				wantPol = testNPol - 1 - p
			}
			assert.Equal(t, weightValue(r, wantPol), weights[r*testNPol+p],
				"weight row %d pol %d", r, p)
		}
	}
}

func TestInvertSubband_AutocorrelationCancels(t *testing.T) {
	ms, tbl := newTestMS(t, 1)
	before := colValues[complex64](t, tbl, mstable.ColData)

	require.NoError(t, ms.InvertSubband(context.Background(), []string{"ON"}))

	after := colValues[complex64](t, tbl, mstable.ColData)
	stride := testNPol * testNFreq
	// The ON autocorrelation matches both position passes: reversed twice,
	// back to the original.
	r := 5
	assert.Equal(t, before[r*stride:(r+1)*stride], after[r*stride:(r+1)*stride])
}

func TestInvertSubband_SelfInverse(t *testing.T) {
	ms, tbl := newTestMS(t, 2)
	before := colValues[complex64](t, tbl, mstable.ColData)

	require.NoError(t, ms.InvertSubband(context.Background(), []string{"EF", "ON"}))
	require.NoError(t, ms.InvertSubband(context.Background(), []string{"EF", "ON"}))

	assert.Equal(t, before, colValues[complex64](t, tbl, mstable.ColData))
}

func TestInvertSubband_FlatColumnShapeError(t *testing.T) {
	ms, tbl := newTestMS(t, 1)

	// Degrade WEIGHT to a flat per-row scalar; reversal has no axis to act
	// on and must fail rather than silently skip.
	mustCol(t, tbl, mstable.ColWeight, []int{tbl.NumRows()}, make([]float32, tbl.NumRows()))

	err := ms.InvertSubband(context.Background(), []string{"EF"})
	require.Error(t, err)

	var shapeErr *mstable.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}
