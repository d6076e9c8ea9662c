package receipt

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AmountCandidate is a number found on a receipt line together with how
// likely it is to be the total.
type AmountCandidate struct {
	Value  decimal.Decimal
	Raw    string
	Weight int
	Line   int // zero-based index of the source line
}

// AmountCandidates is a slice of AmountCandidate that supports sorting and utility methods.
type AmountCandidates []AmountCandidate

// Len implements sort.Interface.
func (c AmountCandidates) Len() int {
	return len(c)
}

// Less implements sort.Interface - heavier candidates come first, then larger values.
func (c AmountCandidates) Less(i, j int) bool {
	if c[i].Weight != c[j].Weight {
		return c[i].Weight > c[j].Weight
	}
	if !c[i].Value.Equal(c[j].Value) {
		return c[i].Value.GreaterThan(c[j].Value)
	}
	return c[i].Line < c[j].Line
}

// Swap implements sort.Interface.
func (c AmountCandidates) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort orders the candidates from most to least likely total.
func (c AmountCandidates) Sort() {
	sort.Stable(c)
}

// Top returns the most likely total, or nil if there are no candidates.
func (c AmountCandidates) Top() *AmountCandidate {
	if len(c) == 0 {
		return nil
	}
	c.Sort()
	return &c[0]
}

// TopN returns the N most likely totals.
func (c AmountCandidates) TopN(n int) AmountCandidates {
	if n <= 0 {
		return AmountCandidates{}
	}

	c.Sort()

	if n > len(c) {
		n = len(c)
	}

	result := make(AmountCandidates, n)
	copy(result, c[:n])
	return result
}
