package jeopardy

import (
	"github.com/samber/lo"
)

// Rand - the randomness source the board draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// SampleCategoryIDs - draws count independent category ids uniformly from [0, maxID).
// Ids may repeat between draws.
func SampleCategoryIDs(rnd Rand, count, maxID int) []int {
	if count <= 0 || maxID <= 0 {
		return []int{}
	}

	return lo.Times(count, func(_ int) int {
		return rnd.IntN(maxID)
	})
}

// SampleDistinctCategoryIDs - like SampleCategoryIDs but never repeats an id.
// When count exceeds the id space every id is returned once, in random order.
func SampleDistinctCategoryIDs(rnd Rand, count, maxID int) []int {
	if count <= 0 || maxID <= 0 {
		return []int{}
	}

	count = min(count, maxID)
	picked := make(map[int]int, count)
	ids := make([]int, count)

	// sparse Fisher-Yates over [0, maxID) so a large id space is never materialised
	at := func(i int) int {
		if v, ok := picked[i]; ok {
			return v
		}
		return i
	}

	for i := range count {
		j := i + rnd.IntN(maxID-i)
		ids[i] = at(j)
		picked[j] = at(i)
	}

	return ids
}
