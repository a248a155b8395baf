package mstable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense_ShapeValidation(t *testing.T) {
	_, err := NewDense([]int{2, 3}, make([]float32, 6))
	require.NoError(t, err)

	_, err = NewDense([]int{2, 3}, make([]float32, 5))
	require.Error(t, err)

	_, err = NewDense(nil, []float32{})
	require.Error(t, err)

	_, err = NewDense([]int{-1}, []float32{})
	require.Error(t, err)
}

func TestDense_Basics(t *testing.T) {
	d := Zeros[complex64](5, 4, 8)
	assert.Equal(t, DTypeComplex64, d.DType())
	assert.Equal(t, []int{5, 4, 8}, d.Shape())
	assert.Equal(t, 3, d.Rank())
	assert.Equal(t, 5, d.NumRows())
	assert.Equal(t, 5*4*8, d.NumElems())
	assert.Equal(t, []int{4, 8}, d.CellShape())
}

func TestDense_SliceAndCopyRows(t *testing.T) {
	d, err := NewDense([]int{4, 2}, []int32{0, 1, 10, 11, 20, 21, 30, 31})
	require.NoError(t, err)

	s, err := d.SliceRows(1, 2)
	require.NoError(t, err)
	sd, err := Values[int32](s)
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 11, 20, 21}, sd)

	// The slice is a copy; mutating it leaves the source untouched.
	sd[0] = 99
	assert.Equal(t, int32(10), d.Data()[2])

	// Write the mutated chunk back.
	require.NoError(t, d.CopyRowsFrom(s, 1))
	assert.Equal(t, int32(99), d.Data()[2])

	_, err = d.SliceRows(3, 2)
	require.Error(t, err)
	require.Error(t, d.CopyRowsFrom(s, 3))

	mismatched := Zeros[float32](2, 2)
	require.Error(t, d.CopyRowsFrom(mismatched, 0))
}

func TestDense_PermutePol_Rank3(t *testing.T) {
	// 2 rows, 2 products, 2 channels.
	d, err := NewDense([]int{2, 2, 2}, []float32{
		1, 2, 3, 4, // row 0: pol0=[1,2] pol1=[3,4]
		5, 6, 7, 8, // row 1
	})
	require.NoError(t, err)

	require.NoError(t, d.PermutePol([]int{0}, []int{1, 0}))
	assert.Equal(t, []float32{3, 4, 1, 2, 5, 6, 7, 8}, d.Data())

	// Applying the involution again restores the row.
	require.NoError(t, d.PermutePol([]int{0}, []int{1, 0}))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, d.Data())
}

func TestDense_PermutePol_Rank2(t *testing.T) {
	d, err := NewDense([]int{2, 4}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	require.NoError(t, d.PermutePol([]int{1}, []int{3, 2, 1, 0}))
	assert.Equal(t, []float32{1, 2, 3, 4, 8, 7, 6, 5}, d.Data())
}

func TestDense_PermutePol_Validation(t *testing.T) {
	d := Zeros[float32](2, 4)
	require.Error(t, d.PermutePol([]int{0}, []int{0, 1}), "length mismatch")
	require.Error(t, d.PermutePol([]int{0}, []int{0, 1, 2, 4}), "entry out of range")

	flat := Zeros[float32](2)
	err := flat.PermutePol([]int{0}, []int{0})
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
}

func TestDense_CopyPol(t *testing.T) {
	d, err := NewDense([]int{2, 2, 2}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	require.NoError(t, err)

	require.NoError(t, d.CopyPol([]int{1}, 0, 1))
	// Row 0 untouched, row 1 pol1 overwritten with pol0.
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 5, 6}, d.Data())

	require.Error(t, d.CopyPol([]int{0}, 0, 2))
}

func TestDense_ReverseLast(t *testing.T) {
	d, err := NewDense([]int{1, 2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	// Each polarization reverses its own frequency run.
	require.NoError(t, d.ReverseLast([]int{0}))
	assert.Equal(t, []float32{3, 2, 1, 6, 5, 4}, d.Data())

	r2, err := NewDense([]int{1, 4}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, r2.ReverseLast([]int{0}))
	assert.Equal(t, []float32{4, 3, 2, 1}, r2.Data())

	flat := Zeros[float32](3)
	err = flat.ReverseLast([]int{0})
	var shapeErr *ShapeError
	require.True(t, errors.As(err, &shapeErr))
}

func TestDense_ScaleRows(t *testing.T) {
	d, err := NewDense([]int{2, 2}, []complex64{1, 2i, 3, 4})
	require.NoError(t, err)

	require.NoError(t, d.ScaleRows([]int{1}, 2.0))
	assert.Equal(t, []complex64{1, 2i, 6, 8}, d.Data())

	f, err := NewDense([]int{2}, []float32{1, 2})
	require.NoError(t, err)
	require.NoError(t, f.ScaleRows([]int{0, 1}, 0.5))
	assert.Equal(t, []float32{0.5, 1}, f.Data())

	// Integer and bool columns refuse to scale.
	require.Error(t, Zeros[int32](2).ScaleRows([]int{0}, 2.0))
	require.Error(t, Zeros[bool](2).ScaleRows([]int{0}, 2.0))
}

func TestValues_TypeMismatch(t *testing.T) {
	d := Zeros[float32](3)
	_, err := Values[int32](d)
	require.Error(t, err)

	got, err := Values[float32](d)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
