package postprocess

import (
	"cmp"
	"slices"
)

// Probability is one ranked entry of a classification output
type Probability struct {
	LabelIndex  int32
	Probability float32
}

// TopK ranks scores in descending order and returns the first k entries.
// Equal scores keep index order. Fewer than k entries are returned when
// scores is shorter than k.
func TopK(scores []float32, k int) []Probability {

	if k <= 0 || len(scores) == 0 {
		return nil
	}

	ranked := make([]Probability, len(scores))

	for i, score := range scores {
		ranked[i] = Probability{
			LabelIndex:  int32(i),
			Probability: score,
		}
	}

	slices.SortStableFunc(ranked, func(a, b Probability) int {
		return cmp.Compare(b.Probability, a.Probability)
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	return ranked[:k:k]
}

// GetTop5 returns the Top5 matches of a classification output, with the best
// match first
func GetTop5(scores []float32) []Probability {
	return TopK(scores, 5)
}

// Label returns the label for the entry, or an empty string when labels does
// not cover its index
func (p Probability) Label(labels []string) string {

	if p.LabelIndex < 0 || int(p.LabelIndex) >= len(labels) {
		return ""
	}

	return labels[p.LabelIndex]
}
