package feed

import (
	types "github.com/yungbote/styleswipe-backend/internal/domain"
)

type Tallies = types.PreferenceTallies

// ApplyTally adds +1 (positive) or -1 to every feature the item carries.
// Scalar dimensions move once, multi-valued dimensions once per value.
func ApplyTally(t *Tallies, item *types.Item, positive bool) {
	if t == nil || item == nil {
		return
	}
	t.EnsureInit()
	delta := -1
	if positive {
		delta = 1
	}
	bump(t.Brands, item.Brand, delta)
	for _, s := range item.Style {
		bump(t.Styles, s, delta)
	}
	for _, c := range item.AvailableColors {
		bump(t.Colors, c, delta)
	}
	bump(t.PriceRanges, PriceBucket(item.Price), delta)
	bump(t.Categories, item.Category, delta)
	bump(t.Patterns, item.Pattern, delta)
}

// bump drops entries that return to zero so a reversed swipe leaves the
// map exactly as it was.
func bump(m map[string]int, key string, delta int) {
	if key == "" {
		return
	}
	if v := m[key] + delta; v != 0 {
		m[key] = v
	} else {
		delete(m, key)
	}
}
