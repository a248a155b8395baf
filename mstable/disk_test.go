package mstable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTable(t *testing.T) *MemTable {
	t.Helper()

	tbl := NewMemTable("test.ms", 6)

	ant1, err := NewDense([]int{6}, []int32{0, 0, 0, 1, 1, 2})
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(ColAntenna1, ant1))

	times, err := NewDense([]int{6}, []float64{10, 10, 10, 12, 12, 12})
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(ColTime, times))

	data := make([]complex64, 6*2*3)
	for i := range data {
		data[i] = complex(float32(i), -float32(i))
	}
	dcol, err := NewDense([]int{6, 2, 3}, data)
	require.NoError(t, err)
	require.NoError(t, tbl.AddColumn(ColData, dcol))

	flags := Zeros[bool](6, 2, 3)
	flags.Data()[1] = true
	require.NoError(t, tbl.AddColumn(ColFlag, flags))

	ant := NewMemTable(KwAntenna, 3)
	names, err := NewDense([]int{3}, []string{"EF", "JB", "ON"})
	require.NoError(t, err)
	require.NoError(t, ant.AddColumn(ColName, names))
	tbl.AddKeyword(KwAntenna, ant)

	return tbl
}

func TestWriteDisk_OpenDisk_RoundTrip(t *testing.T) {
	src := buildTestTable(t)
	dir := filepath.Join(t.TempDir(), "test.ms")

	require.NoError(t, WriteDisk(dir, src, 2))

	got, err := OpenDisk(dir, false)
	require.NoError(t, err)
	defer got.Close()

	assert.Equal(t, 6, got.NumRows())
	assert.Equal(t, src.ColumnNames(), got.ColumnNames())
	assert.Equal(t, []string{KwAntenna}, got.KeywordNames())

	for _, name := range src.ColumnNames() {
		want, err := src.GetColumn(name, 0, 6)
		require.NoError(t, err)
		have, err := got.GetColumn(name, 0, 6)
		require.NoError(t, err)
		assert.Equal(t, want, have, "column %s", name)
	}

	sub, err := got.Keyword(KwAntenna)
	require.NoError(t, err)
	col, err := sub.GetColumn(ColName, 0, 3)
	require.NoError(t, err)
	names, err := Values[string](col)
	require.NoError(t, err)
	assert.Equal(t, []string{"EF", "JB", "ON"}, names)

	_, err = got.Keyword("MISSING")
	require.Error(t, err)
}

func TestDiskTable_PutColumn(t *testing.T) {
	src := buildTestTable(t)
	dir := filepath.Join(t.TempDir(), "test.ms")
	require.NoError(t, WriteDisk(dir, src, 100))

	tbl, err := OpenDisk(dir, false)
	require.NoError(t, err)

	chunk, err := tbl.GetColumn(ColData, 2, 2)
	require.NoError(t, err)
	require.NoError(t, chunk.ScaleRows([]int{0, 1}, 2.0))
	require.NoError(t, tbl.PutColumn(ColData, chunk, 2, 2))
	require.NoError(t, tbl.Close())

	// Re-open and check the write landed only on the targeted rows.
	tbl, err = OpenDisk(dir, true)
	require.NoError(t, err)
	defer tbl.Close()

	orig, err := src.GetColumn(ColData, 0, 6)
	require.NoError(t, err)
	want, err := Values[complex64](orig)
	require.NoError(t, err)
	for i := 2 * 6; i < 4*6; i++ {
		want[i] *= 2
	}

	col, err := tbl.GetColumn(ColData, 0, 6)
	require.NoError(t, err)
	have, err := Values[complex64](col)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestDiskTable_PutColumn_Validation(t *testing.T) {
	src := buildTestTable(t)
	dir := filepath.Join(t.TempDir(), "test.ms")
	require.NoError(t, WriteDisk(dir, src, 100))

	tbl, err := OpenDisk(dir, false)
	require.NoError(t, err)
	defer tbl.Close()

	// Wrong dtype.
	require.Error(t, tbl.PutColumn(ColData, Zeros[float32](2, 2, 3), 0, 2))
	// Wrong cell shape.
	require.Error(t, tbl.PutColumn(ColData, Zeros[complex64](2, 3, 3), 0, 2))
	// Out of range.
	require.Error(t, tbl.PutColumn(ColData, Zeros[complex64](4, 2, 3), 4, 4))
}

func TestDiskTable_ReadOnly(t *testing.T) {
	src := buildTestTable(t)
	dir := filepath.Join(t.TempDir(), "test.ms")
	require.NoError(t, WriteDisk(dir, src, 100))

	tbl, err := OpenDisk(dir, true)
	require.NoError(t, err)
	defer tbl.Close()

	err = tbl.PutColumn(ColTime, Zeros[float64](1), 0, 1)
	require.ErrorIs(t, err, ErrReadOnly)

	// Reads are served from the mapping.
	col, err := tbl.GetColumn(ColTime, 3, 3)
	require.NoError(t, err)
	times, err := Values[float64](col)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 12, 12}, times)

	// Zero-length reads are fine at any offset.
	_, err = tbl.GetColumn(ColTime, 6, 0)
	require.NoError(t, err)
}

func TestDiskTable_StringColumnWrite(t *testing.T) {
	src := buildTestTable(t)
	dir := filepath.Join(t.TempDir(), "test.ms")
	require.NoError(t, WriteDisk(dir, src, 100))

	tbl, err := OpenDisk(dir, false)
	require.NoError(t, err)
	sub, err := tbl.Keyword(KwAntenna)
	require.NoError(t, err)

	repl, err := NewDense([]int{1}, []string{"WB"})
	require.NoError(t, err)
	require.NoError(t, sub.PutColumn(ColName, repl, 1, 1))
	require.NoError(t, tbl.Close())

	tbl, err = OpenDisk(dir, true)
	require.NoError(t, err)
	defer tbl.Close()
	sub, err = tbl.Keyword(KwAntenna)
	require.NoError(t, err)
	col, err := sub.GetColumn(ColName, 0, 3)
	require.NoError(t, err)
	names, err := Values[string](col)
	require.NoError(t, err)
	assert.Equal(t, []string{"EF", "WB", "ON"}, names)
}
