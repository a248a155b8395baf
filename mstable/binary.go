package mstable

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Column files hold fixed-width little-endian elements in row-major order.
// Strings never appear in column files; string columns (subtable names,
// project codes) are persisted as JSON next to the manifest.

func encodeElems(c Column) ([]byte, error) {
	switch d := c.(type) {
	case *Dense[bool]:
		buf := make([]byte, len(d.data))
		for i, v := range d.data {
			if v {
				buf[i] = 1
			}
		}
		return buf, nil
	case *Dense[int32]:
		buf := make([]byte, 4*len(d.data))
		for i, v := range d.data {
			binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
		}
		return buf, nil
	case *Dense[float32]:
		buf := make([]byte, 4*len(d.data))
		for i, v := range d.data {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		return buf, nil
	case *Dense[float64]:
		buf := make([]byte, 8*len(d.data))
		for i, v := range d.data {
			binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
		}
		return buf, nil
	case *Dense[complex64]:
		buf := make([]byte, 8*len(d.data))
		for i, v := range d.data {
			binary.LittleEndian.PutUint32(buf[8*i:], math.Float32bits(real(v)))
			binary.LittleEndian.PutUint32(buf[8*i+4:], math.Float32bits(imag(v)))
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("cannot binary-encode %s column", c.DType())
	}
}

func decodeElems(dtype DType, shape []int, buf []byte) (Column, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if want := n * dtype.Size(); want != len(buf) {
		return nil, fmt.Errorf("%s column: expected %d bytes for shape %v, got %d", dtype, want, shape, len(buf))
	}
	switch dtype {
	case DTypeBool:
		data := make([]bool, n)
		for i := range data {
			data[i] = buf[i] != 0
		}
		return NewDense(shape, data)
	case DTypeInt32:
		data := make([]int32, n)
		for i := range data {
			data[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		return NewDense(shape, data)
	case DTypeFloat32:
		data := make([]float32, n)
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		return NewDense(shape, data)
	case DTypeFloat64:
		data := make([]float64, n)
		for i := range data {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
		}
		return NewDense(shape, data)
	case DTypeComplex64:
		data := make([]complex64, n)
		for i := range data {
			re := math.Float32frombits(binary.LittleEndian.Uint32(buf[8*i:]))
			im := math.Float32frombits(binary.LittleEndian.Uint32(buf[8*i+4:]))
			data[i] = complex(re, im)
		}
		return NewDense(shape, data)
	default:
		return nil, fmt.Errorf("cannot binary-decode %s column", dtype)
	}
}
