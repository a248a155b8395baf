package transform

// FlagStats accumulates flag counters across the whole traversal of
// FlagWeights. Counters are per scalar flag element, not per row: a
// 4-polarization, 32-channel table contributes 128 elements per row.
type FlagStats struct {
	// Total is the number of flag elements seen.
	Total int64
	// Before and After count flagged elements before and after applying
	// the threshold.
	Before int64
	After  int64
	// NonZero counts post-transform flags on elements whose weight
	// exceeds the epsilon, i.e. data that looked good but is being
	// discarded.
	NonZero int64
}

func pct(part, total int64) float64 {
	if total <= 0 {
		return 0.0
	}
	return 100.0 * float64(part) / float64(total)
}

// PctTotal is the percentage of elements flagged after the transform.
func (s FlagStats) PctTotal() float64 { return pct(s.After, s.Total) }

// PctNew is the percentage of elements newly flagged by this invocation.
func (s FlagStats) PctNew() float64 { return pct(s.After-s.Before, s.Total) }

// PctNonZero is the percentage of elements flagged despite carrying a
// non-negligible weight.
func (s FlagStats) PctNonZero() float64 { return pct(s.NonZero, s.Total) }
