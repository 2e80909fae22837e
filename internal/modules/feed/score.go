package feed

import (
	types "github.com/yungbote/styleswipe-backend/internal/domain"
)

// Score sums the tally of every feature the item carries. Missing entries count 0.
func Score(t Tallies, item *types.Item) int {
	if item == nil {
		return 0
	}
	score := t.Brands[item.Brand]
	for _, s := range item.Style {
		score += t.Styles[s]
	}
	for _, c := range item.AvailableColors {
		score += t.Colors[c]
	}
	score += t.PriceRanges[PriceBucket(item.Price)]
	score += t.Categories[item.Category]
	score += t.Patterns[item.Pattern]
	return score
}

type Scored struct {
	Item  *types.Item
	Score int
}

func ScoreAll(t Tallies, items []*types.Item) []Scored {
	out := make([]Scored, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		out = append(out, Scored{Item: it, Score: Score(t, it)})
	}
	return out
}
