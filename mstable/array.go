package mstable

import (
	"fmt"
	"slices"
)

// DType identifies the element type of a column.
type DType string

const (
	DTypeBool      DType = "bool"
	DTypeInt32     DType = "int32"
	DTypeFloat32   DType = "float32"
	DTypeFloat64   DType = "float64"
	DTypeComplex64 DType = "complex64"
	DTypeString    DType = "string"
)

// Size returns the on-disk size of one element in bytes, or 0 for
// variable-width types.
func (d DType) Size() int {
	switch d {
	case DTypeBool:
		return 1
	case DTypeInt32, DTypeFloat32:
		return 4
	case DTypeFloat64, DTypeComplex64:
		return 8
	default:
		return 0
	}
}

// Elem constrains the element types a column may carry.
type Elem interface {
	bool | int32 | float32 | float64 | complex64 | string
}

func dtypeOf[T Elem]() DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return DTypeBool
	case int32:
		return DTypeInt32
	case float32:
		return DTypeFloat32
	case float64:
		return DTypeFloat64
	case complex64:
		return DTypeComplex64
	default:
		return DTypeString
	}
}

// ShapeError reports a column whose rank does not fit the requested
// operation. The transform layer wraps it with the column name.
type ShapeError struct {
	Op    string
	Shape []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unsupported column shape %v", e.Op, e.Shape)
}

// Column is a dense row-major array holding a contiguous row range of a
// named table column. The first axis is always the row axis; the cell
// shape (the remaining axes) is fixed per column: [npol] for
// per-polarization scalars, [npol, nfreq] for spectra, or empty for flat
// columns.
//
// The mutating methods operate on chunk-local row indices and are the
// primitives the transform engine is built from.
type Column interface {
	DType() DType
	Shape() []int
	Rank() int
	NumRows() int
	NumElems() int

	Clone() Column
	SliceRows(start, n int) (Column, error)
	CopyRowsFrom(src Column, start int) error

	// PermutePol gathers along the polarization axis: destination product
	// i of each selected row receives the data of source product perm[i].
	PermutePol(rows []int, perm []int) error
	// CopyPol overwrites the dstPol slice of each selected row with its
	// srcPol slice. The source is left untouched.
	CopyPol(rows []int, srcPol, dstPol int) error
	// ReverseLast reverses the last axis of each selected row.
	ReverseLast(rows []int) error
	// ScaleRows multiplies every element of each selected row by factor.
	ScaleRows(rows []int, factor float64) error
}

// Dense is the concrete Column implementation.
type Dense[T Elem] struct {
	shape []int
	data  []T
}

// NewDense wraps data as a column of the given shape. The data slice is
// owned by the column afterwards.
func NewDense[T Elem](shape []int, data []T) (*Dense[T], error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("column shape must have at least the row axis")
	}
	n := 1
	for _, s := range shape {
		if s < 0 {
			return nil, fmt.Errorf("negative axis length in shape %v", shape)
		}
		n *= s
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v implies %d elements, got %d", shape, n, len(data))
	}
	return &Dense[T]{shape: slices.Clone(shape), data: data}, nil
}

// Zeros creates a zero-valued column of the given shape.
func Zeros[T Elem](shape ...int) *Dense[T] {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Dense[T]{shape: slices.Clone(shape), data: make([]T, n)}
}

// Data exposes the backing slice in row-major order.
func (d *Dense[T]) Data() []T { return d.data }

func (d *Dense[T]) DType() DType { return dtypeOf[T]() }

func (d *Dense[T]) Shape() []int { return slices.Clone(d.shape) }

func (d *Dense[T]) Rank() int { return len(d.shape) }

func (d *Dense[T]) NumRows() int { return d.shape[0] }

func (d *Dense[T]) NumElems() int { return len(d.data) }

// CellShape returns the per-row shape (everything after the row axis).
func (d *Dense[T]) CellShape() []int { return slices.Clone(d.shape[1:]) }

// rowStride is the number of elements per row.
func (d *Dense[T]) rowStride() int {
	n := 1
	for _, s := range d.shape[1:] {
		n *= s
	}
	return n
}

func (d *Dense[T]) Clone() Column {
	return &Dense[T]{shape: slices.Clone(d.shape), data: slices.Clone(d.data)}
}

func (d *Dense[T]) SliceRows(start, n int) (Column, error) {
	if start < 0 || n < 0 || start+n > d.shape[0] {
		return nil, fmt.Errorf("row range [%d, %d) out of bounds (nrows=%d)", start, start+n, d.shape[0])
	}
	stride := d.rowStride()
	shape := slices.Clone(d.shape)
	shape[0] = n
	return &Dense[T]{
		shape: shape,
		data:  slices.Clone(d.data[start*stride : (start+n)*stride]),
	}, nil
}

func (d *Dense[T]) CopyRowsFrom(src Column, start int) error {
	s, ok := src.(*Dense[T])
	if !ok {
		return fmt.Errorf("column type mismatch: %s vs %s", d.DType(), src.DType())
	}
	if !slices.Equal(d.shape[1:], s.shape[1:]) {
		return fmt.Errorf("cell shape mismatch: %v vs %v", d.shape[1:], s.shape[1:])
	}
	if start < 0 || start+s.shape[0] > d.shape[0] {
		return fmt.Errorf("row range [%d, %d) out of bounds (nrows=%d)", start, start+s.shape[0], d.shape[0])
	}
	stride := d.rowStride()
	copy(d.data[start*stride:], s.data)
	return nil
}

func (d *Dense[T]) PermutePol(rows []int, perm []int) error {
	switch len(d.shape) {
	case 2:
		npol := d.shape[1]
		if err := checkPerm(perm, npol); err != nil {
			return err
		}
		tmp := make([]T, npol)
		for _, r := range rows {
			row := d.data[r*npol : (r+1)*npol]
			copy(tmp, row)
			for i, p := range perm {
				row[i] = tmp[p]
			}
		}
	case 3:
		npol, nfreq := d.shape[1], d.shape[2]
		if err := checkPerm(perm, npol); err != nil {
			return err
		}
		block := npol * nfreq
		tmp := make([]T, block)
		for _, r := range rows {
			row := d.data[r*block : (r+1)*block]
			copy(tmp, row)
			for i, p := range perm {
				copy(row[i*nfreq:(i+1)*nfreq], tmp[p*nfreq:(p+1)*nfreq])
			}
		}
	default:
		return &ShapeError{Op: "permute polarizations", Shape: d.Shape()}
	}
	return nil
}

func checkPerm(perm []int, npol int) error {
	if len(perm) != npol {
		return fmt.Errorf("permutation length %d does not match %d polarizations", len(perm), npol)
	}
	for _, p := range perm {
		if p < 0 || p >= npol {
			return fmt.Errorf("permutation entry %d out of range [0, %d)", p, npol)
		}
	}
	return nil
}

func (d *Dense[T]) CopyPol(rows []int, srcPol, dstPol int) error {
	switch len(d.shape) {
	case 2:
		npol := d.shape[1]
		if err := checkPol(srcPol, dstPol, npol); err != nil {
			return err
		}
		for _, r := range rows {
			d.data[r*npol+dstPol] = d.data[r*npol+srcPol]
		}
	case 3:
		npol, nfreq := d.shape[1], d.shape[2]
		if err := checkPol(srcPol, dstPol, npol); err != nil {
			return err
		}
		block := npol * nfreq
		for _, r := range rows {
			row := d.data[r*block : (r+1)*block]
			copy(row[dstPol*nfreq:(dstPol+1)*nfreq], row[srcPol*nfreq:(srcPol+1)*nfreq])
		}
	default:
		return &ShapeError{Op: "copy polarization", Shape: d.Shape()}
	}
	return nil
}

func checkPol(src, dst, npol int) error {
	if src < 0 || src >= npol || dst < 0 || dst >= npol {
		return fmt.Errorf("polarization index out of range [0, %d): src=%d dst=%d", npol, src, dst)
	}
	return nil
}

func (d *Dense[T]) ReverseLast(rows []int) error {
	switch len(d.shape) {
	case 2:
		last := d.shape[1]
		for _, r := range rows {
			slices.Reverse(d.data[r*last : (r+1)*last])
		}
	case 3:
		npol, nfreq := d.shape[1], d.shape[2]
		block := npol * nfreq
		for _, r := range rows {
			row := d.data[r*block : (r+1)*block]
			for p := 0; p < npol; p++ {
				slices.Reverse(row[p*nfreq : (p+1)*nfreq])
			}
		}
	default:
		return &ShapeError{Op: "reverse frequency axis", Shape: d.Shape()}
	}
	return nil
}

func (d *Dense[T]) ScaleRows(rows []int, factor float64) error {
	stride := d.rowStride()
	switch data := any(d.data).(type) {
	case []float32:
		f := float32(factor)
		for _, r := range rows {
			for i := r * stride; i < (r+1)*stride; i++ {
				data[i] *= f
			}
		}
	case []float64:
		for _, r := range rows {
			for i := r * stride; i < (r+1)*stride; i++ {
				data[i] *= factor
			}
		}
	case []complex64:
		f := complex(float32(factor), 0)
		for _, r := range rows {
			for i := r * stride; i < (r+1)*stride; i++ {
				data[i] *= f
			}
		}
	default:
		return fmt.Errorf("%s column cannot be scaled", d.DType())
	}
	return nil
}

// Values extracts the backing slice of a column with the expected element
// type, typically for rank-1 bookkeeping columns (antenna ids, times).
func Values[T Elem](c Column) ([]T, error) {
	d, ok := c.(*Dense[T])
	if !ok {
		return nil, fmt.Errorf("column holds %s, not %s", c.DType(), dtypeOf[T]())
	}
	return d.data, nil
}
