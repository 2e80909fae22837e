package feed

import (
	"bytes"
	"math"
	"math/rand"
	"sort"
	"time"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
)

// Assembly is an ordered feed page plus the slice sizes actually used.
type Assembly struct {
	Items             []*types.Item
	PersonalizedCount int
	ExplorationCount  int
}

// Assemble ranks the pool and mixes exploration items from below the
// personalized cutoff into random gaps of the personalized slice.
// rng is only consulted when exploration items are drawn.
func Assemble(pool []Scored, limit int, rate float64, rng *rand.Rand) Assembly {
	if limit <= 0 || len(pool) == 0 {
		return Assembly{Items: []*types.Item{}}
	}
	rate = clampRate(rate)

	ranked := Rank(pool)
	explorationCount := int(math.Floor(float64(limit) * rate))
	personalizedCount := limit - explorationCount

	cut := min(personalizedCount, len(ranked))
	personalized := make([]*types.Item, 0, cut)
	for _, s := range ranked[:cut] {
		personalized = append(personalized, s.Item)
	}

	tail := ranked[cut:]
	k := min(explorationCount, len(tail))
	if k == 0 {
		return Assembly{Items: personalized, PersonalizedCount: len(personalized)}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	exploration := sampleTail(tail, k, rng)
	gaps := chooseGaps(len(personalized)+1, k, rng)

	items := make([]*types.Item, 0, len(personalized)+len(exploration))
	next := 0
	for g := 0; g <= len(personalized); g++ {
		for next < len(gaps) && gaps[next] == g {
			items = append(items, exploration[next])
			next++
		}
		if g < len(personalized) {
			items = append(items, personalized[g])
		}
	}
	return Assembly{
		Items:             items,
		PersonalizedCount: len(personalized),
		ExplorationCount:  len(exploration),
	}
}

// Rank sorts a copy of the pool by score descending, then item id ascending.
func Rank(pool []Scored) []Scored {
	ranked := make([]Scored, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return bytes.Compare(ranked[i].Item.ID[:], ranked[j].Item.ID[:]) < 0
	})
	return ranked
}

func clampRate(rate float64) float64 {
	switch {
	case math.IsNaN(rate), rate < 0:
		return 0
	case rate > 1:
		return 1
	default:
		return rate
	}
}

// sampleTail draws k items without replacement using a partial Fisher-Yates shuffle.
func sampleTail(tail []Scored, k int, rng *rand.Rand) []*types.Item {
	idx := make([]int, len(tail))
	for i := range idx {
		idx[i] = i
	}
	out := make([]*types.Item, 0, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, tail[idx[i]].Item)
	}
	return out
}

// chooseGaps returns k gap indexes in ascending order. When k fits, the gaps
// are distinct and uniformly chosen; otherwise every gap is used once and the
// surplus lands on uniformly chosen gaps.
func chooseGaps(n, k int, rng *rand.Rand) []int {
	gaps := make([]int, 0, k)
	if k <= n {
		slots := make([]int, n)
		for i := range slots {
			slots[i] = i
		}
		for i := 0; i < k; i++ {
			j := i + rng.Intn(n-i)
			slots[i], slots[j] = slots[j], slots[i]
			gaps = append(gaps, slots[i])
		}
	} else {
		for g := 0; g < n; g++ {
			gaps = append(gaps, g)
		}
		for len(gaps) < k {
			gaps = append(gaps, rng.Intn(n))
		}
	}
	sort.Ints(gaps)
	return gaps
}
