package transform

import (
	"fmt"
	"slices"
)

// deriveSwap computes the column permutation that flips the polarization
// hand of the antenna at position antPos (0 for ANTENNA1, 1 for ANTENNA2).
//
// For each product pair, the code at antPos is XOR-toggled between the two
// base states of its basis (R/L or X/Y, encoded 0/1), and the toggled pair
// is located in the original table; its index becomes the permutation
// entry. For products [[0,0],[1,1],[0,1],[1,0]] and antPos 0 this yields
// [3, 2, 1, 0]: the RR column receives LR, LL receives RL, and so on.
//
// The product table must be a bijection under the toggle; a pair without a
// counterpart is a validation error raised before any data is touched.
func deriveSwap(products [][2]int32, antPos int) ([]int, error) {
	perm := make([]int, len(products))
	for i, p := range products {
		flipped := p
		flipped[antPos] ^= 1
		j := slices.Index(products, flipped)
		if j < 0 {
			return nil, fmt.Errorf("polarization products define no counterpart for %v with antenna position %d flipped", p, antPos)
		}
		perm[i] = j
	}
	return perm, nil
}

// polCopy pairs a source correlation index with the destination index that
// receives its data.
type polCopy struct {
	src int
	dst int
}

// deriveCopies lists the per-product copies for replacing the opposite
// hand of the antenna at antPos with data from the hand-index hand
// (0 for R/X, 1 for L/Y). For each product whose code at antPos equals
// hand, the destination is the product with just that position flipped;
// products without a flipped counterpart are skipped.
func deriveCopies(products [][2]int32, antPos, hand int) []polCopy {
	var copies []polCopy
	for i, p := range products {
		if p[antPos] != int32(hand) {
			continue
		}
		flipped := p
		flipped[antPos] = 1 - int32(hand)
		if j := slices.Index(products, flipped); j >= 0 {
			copies = append(copies, polCopy{src: i, dst: j})
		}
	}
	return copies
}
