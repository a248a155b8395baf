package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmarcote/mstools/mstable"
)

// The synthetic table used across the transform tests: three stations
// (EF, JB, ON), all baselines including autocorrelations, four circular
// products in the order RR, LL, RL, LR, three channels.
var testPairs = [][2]int32{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 2}, {2, 2}}

const (
	testNPol  = 4
	testNFreq = 3
	testT0    = 5.0e9
)

// dataValue encodes row, product and channel into a recognizable value so
// assertions can name exactly which slice moved where.
func dataValue(r, p, c int) complex64 {
	return complex(float32(1000*r+10*p+c), 0)
}

func weightValue(r, p int) float32 {
	return float32(10*r + p + 1)
}

func mustCol[T mstable.Elem](t *testing.T, tbl *mstable.MemTable, name string, shape []int, data []T) {
	t.Helper()
	col, err := mstable.NewDense(shape, data)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(name, col))
}

func colValues[T mstable.Elem](t *testing.T, tbl mstable.Table, name string) []T {
	t.Helper()
	col, err := tbl.GetColumn(name, 0, tbl.NumRows())
	require.NoError(t, err)
	values, err := mstable.Values[T](col)
	require.NoError(t, err)
	return values
}

// newTestMS synthesizes an in-memory table with ntime integrations of the
// full baseline set, two seconds apart.
func newTestMS(t *testing.T, ntime int) (*MS, *mstable.MemTable) {
	t.Helper()

	nrow := ntime * len(testPairs)
	tbl := mstable.NewMemTable("test.ms", nrow)

	ant1 := make([]int32, nrow)
	ant2 := make([]int32, nrow)
	times := make([]float64, nrow)
	for k := 0; k < ntime; k++ {
		for i, p := range testPairs {
			r := k*len(testPairs) + i
			ant1[r] = p[0]
			ant2[r] = p[1]
			times[r] = testT0 + 2*float64(k)
		}
	}

	data := make([]complex64, nrow*testNPol*testNFreq)
	flags := make([]bool, nrow*testNPol*testNFreq)
	weights := make([]float32, nrow*testNPol)
	sigmas := make([]float32, nrow*testNPol)
	for r := 0; r < nrow; r++ {
		for p := 0; p < testNPol; p++ {
			weights[r*testNPol+p] = weightValue(r, p)
			sigmas[r*testNPol+p] = 1.0
			for c := 0; c < testNFreq; c++ {
				data[(r*testNPol+p)*testNFreq+c] = dataValue(r, p, c)
			}
		}
	}

	mustCol(t, tbl, mstable.ColData, []int{nrow, testNPol, testNFreq}, data)
	mustCol(t, tbl, mstable.ColFlag, []int{nrow, testNPol, testNFreq}, flags)
	mustCol(t, tbl, mstable.ColWeight, []int{nrow, testNPol}, weights)
	mustCol(t, tbl, mstable.ColSigma, []int{nrow, testNPol}, sigmas)
	mustCol(t, tbl, mstable.ColAntenna1, []int{nrow}, ant1)
	mustCol(t, tbl, mstable.ColAntenna2, []int{nrow}, ant2)
	mustCol(t, tbl, mstable.ColTime, []int{nrow}, times)

	ant := mstable.NewMemTable(mstable.KwAntenna, 3)
	mustCol(t, ant, mstable.ColName, []int{3}, []string{"EF", "JB", "ON"})
	tbl.AddKeyword(mstable.KwAntenna, ant)

	pol := mstable.NewMemTable(mstable.KwPolarization, 1)
	mustCol(t, pol, mstable.ColCorrType, []int{1, 4}, []int32{5, 8, 6, 7}) // RR LL RL LR
	mustCol(t, pol, mstable.ColCorrProduct, []int{1, 4, 2}, []int32{0, 0, 1, 1, 0, 1, 1, 0})
	tbl.AddKeyword(mstable.KwPolarization, pol)

	obs := mstable.NewMemTable(mstable.KwObservation, 1)
	tmax := testT0 + 2*float64(ntime-1)
	mustCol(t, obs, mstable.ColTimeRange, []int{1, 2}, []float64{testT0, tmax})
	mustCol(t, obs, mstable.ColProject, []int{1}, []string{"EV042A"})
	mustCol(t, obs, mstable.ColObserver, []int{1}, []string{"EV042A"})
	tbl.AddKeyword(mstable.KwObservation, obs)

	return New(tbl), tbl
}

// rowsWith lists the rows whose baseline satisfies the predicate.
func rowsWith(nrow int, pred func(a1, a2 int32) bool) map[int]bool {
	rows := make(map[int]bool)
	for r := 0; r < nrow; r++ {
		p := testPairs[r%len(testPairs)]
		if pred(p[0], p[1]) {
			rows[r] = true
		}
	}
	return rows
}
