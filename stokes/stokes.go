// Package stokes catalogs the correlation/Stokes product codes used by
// measurement-set polarization tables, following the casacore numbering.
//
// Transforms that reorder polarization products only make sense when the
// product set belongs to a single basis (circular R/L, linear X/Y, or the
// mixed R/L-X/Y combinations). The membership sets below encode that rule
// explicitly; callers validate before touching any data.
package stokes

import "fmt"

// Code identifies a correlation or Stokes product.
type Code int32

// Casacore Stokes enumeration. Only the correlation products (RR..YL) are
// relevant for the transforms in this module; the rest are carried for
// completeness when reporting table contents.
const (
	Undefined Code = iota
	I
	Q
	U
	V
	RR // circular correlation products
	RL
	LR
	LL
	XX // linear correlation products
	XY
	YX
	YY
	RX // mixed correlation products
	RY
	LX
	LY
	XR
	XL
	YR
	YL
	PP // general quasi-orthogonal products
	PQ
	QP
	QQ
	RCircular // single dish polarization types
	LCircular
	Linear
	Ptotal
	Plinear
	PFtotal
	PFlinear
	Pangle
)

var codeNames = map[Code]string{
	Undefined: "Undefined",
	I:         "I",
	Q:         "Q",
	U:         "U",
	V:         "V",
	RR:        "RR",
	RL:        "RL",
	LR:        "LR",
	LL:        "LL",
	XX:        "XX",
	XY:        "XY",
	YX:        "YX",
	YY:        "YY",
	RX:        "RX",
	RY:        "RY",
	LX:        "LX",
	LY:        "LY",
	XR:        "XR",
	XL:        "XL",
	YR:        "YR",
	YL:        "YL",
	PP:        "PP",
	PQ:        "PQ",
	QP:        "QP",
	QQ:        "QQ",
	RCircular: "RCircular",
	LCircular: "LCircular",
	Linear:    "Linear",
	Ptotal:    "Ptotal",
	Plinear:   "Plinear",
	PFtotal:   "PFtotal",
	PFlinear:  "PFlinear",
	Pangle:    "Pangle",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Stokes(%d)", int32(c))
}

// Basis groups correlation products by the polarization frame they live in.
type Basis int

const (
	BasisUnknown Basis = iota
	BasisCircular
	BasisLinear
	BasisMixed
)

func (b Basis) String() string {
	switch b {
	case BasisCircular:
		return "circular"
	case BasisLinear:
		return "linear"
	case BasisMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// BasisOf returns the basis a single correlation product belongs to, or
// BasisUnknown for non-correlation codes (I, Q, U, ...).
func BasisOf(c Code) Basis {
	switch {
	case c >= RR && c <= LL:
		return BasisCircular
	case c >= XX && c <= YY:
		return BasisLinear
	case c >= RX && c <= YL:
		return BasisMixed
	default:
		return BasisUnknown
	}
}

// IsCorrelation reports whether c is one of the correlation products RR..YL.
func IsCorrelation(c Code) bool {
	return c >= RR && c <= YL
}

// ErrInvalidSet indicates a polarization set that is not entirely made of
// circular, linear, or mixed correlation products.
type ErrInvalidSet struct {
	Codes []Code
}

func (e *ErrInvalidSet) Error() string {
	return fmt.Sprintf("polarization set %v is not circular, linear, or mixed", e.Codes)
}

// ValidateSet checks that every code in the set is a correlation product,
// so that a single-antenna polarization flip (R<->L or X<->Y) is
// well-defined for all of them. It returns the basis of the set, where any
// combination involving mixed products reports BasisMixed.
func ValidateSet(codes []Code) (Basis, error) {
	basis := BasisUnknown
	for _, c := range codes {
		b := BasisOf(c)
		if b == BasisUnknown {
			return BasisUnknown, &ErrInvalidSet{Codes: codes}
		}
		switch {
		case basis == BasisUnknown:
			basis = b
		case basis != b:
			// Circular + linear products in one set still flip
			// consistently per antenna position, same as mixed.
			basis = BasisMixed
		}
	}
	if basis == BasisUnknown {
		return BasisUnknown, &ErrInvalidSet{Codes: codes}
	}
	return basis, nil
}

// ParseHand maps a single polarization letter (R, L, X or Y, case
// insensitive) to its per-antenna product index: R and X are 0, L and Y
// are 1. This matches the 0/1 encoding used in CORR_PRODUCT tables.
func ParseHand(letter string) (int, error) {
	switch letter {
	case "R", "r", "X", "x":
		return 0, nil
	case "L", "l", "Y", "y":
		return 1, nil
	default:
		return 0, fmt.Errorf("polarization must be R, L, X, or Y, got %q", letter)
	}
}
