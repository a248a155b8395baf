package transform

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmarcote/mstools/mstable"
)

func TestScaleFactors(t *testing.T) {
	// Inherited constants; any drift here corrupts data silently.
	assert.InDelta(t, 1.3864, factor1b1b, 1e-4)
	assert.InDelta(t, math.Sqrt(factor1b1b), factor1b2b, 1e-12)
}

func TestScale1Bit(t *testing.T) {
	ms, tbl := newTestMS(t, 2)
	nrow := tbl.NumRows()

	require.NoError(t, ms.Scale1Bit(context.Background(), []string{"EF", "JB"}, WithChunkSize(7)))

	both := rowsWith(nrow, func(a1, a2 int32) bool {
		return a1 != a2 && a1 <= 1 && a2 <= 1
	})
	one := rowsWith(nrow, func(a1, a2 int32) bool {
		return a1 != a2 && (a1 <= 1) != (a2 <= 1)
	})

	data := colValues[complex64](t, tbl, mstable.ColData)
	weights := colValues[float32](t, tbl, mstable.ColWeight)
	for r := 0; r < nrow; r++ {
		factor := 1.0
		switch {
		case both[r]:
			factor = factor1b1b
		case one[r]:
			factor = factor1b2b
		}
		for p := 0; p < testNPol; p++ {
			assert.InDelta(t, float64(weightValue(r, p))*factor, float64(weights[r*testNPol+p]), 1e-2,
				"weight row %d pol %d", r, p)
			for c := 0; c < testNFreq; c++ {
				want := float64(real(dataValue(r, p, c))) * factor
				got := data[(r*testNPol+p)*testNFreq+c]
				assert.InDelta(t, want, float64(real(got)), 1e-2, "data row %d pol %d chan %d", r, p, c)
			}
		}
	}
}

func TestScale1Bit_AutocorrelationsUntouched(t *testing.T) {
	ms, tbl := newTestMS(t, 1)
	before := colValues[complex64](t, tbl, mstable.ColData)

	require.NoError(t, ms.Scale1Bit(context.Background(), []string{"EF", "JB", "ON"}))

	after := colValues[complex64](t, tbl, mstable.ColData)
	stride := testNPol * testNFreq
	for r, p := range testPairs {
		if p[0] == p[1] {
			assert.Equal(t, before[r*stride:(r+1)*stride], after[r*stride:(r+1)*stride],
				"autocorrelation row %d", r)
		}
	}
}

func TestScale1Bit_UndoRoundTrip(t *testing.T) {
	ms, tbl := newTestMS(t, 2)
	before := colValues[complex64](t, tbl, mstable.ColData)
	weightsBefore := colValues[float32](t, tbl, mstable.ColWeight)

	require.NoError(t, ms.Scale1Bit(context.Background(), []string{"EF"}))
	require.NoError(t, ms.Scale1Bit(context.Background(), []string{"EF"}, WithUndo()))

	data := colValues[complex64](t, tbl, mstable.ColData)
	weights := colValues[float32](t, tbl, mstable.ColWeight)
	for i := range before {
		assert.InDelta(t, float64(real(before[i])), float64(real(data[i])), 1e-2)
	}
	for i := range weightsBefore {
		assert.InDelta(t, float64(weightsBefore[i]), float64(weights[i]), 1e-2)
	}
}

func TestScale1Bit_SkipWeights(t *testing.T) {
	ms, tbl := newTestMS(t, 1)
	weightsBefore := colValues[float32](t, tbl, mstable.ColWeight)

	require.NoError(t, ms.Scale1Bit(context.Background(), []string{"EF"}, WithScaleWeights(false)))

	assert.Equal(t, weightsBefore, colValues[float32](t, tbl, mstable.ColWeight))

	// DATA still scaled on the affected baselines.
	data := colValues[complex64](t, tbl, mstable.ColData)
	r := 1 // EF-JB
	got := real(data[r*testNPol*testNFreq])
	want := float64(real(dataValue(r, 0, 0))) * factor1b2b
	assert.InDelta(t, want, float64(got), 1e-2)
}
