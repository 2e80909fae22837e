package feed

import (
	"slices"
	"strconv"

	"github.com/google/uuid"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
)

const (
	TopBrands      = 5
	TopStyles      = 5
	TopColors      = 5
	TopCategories  = 5
	TopPriceRanges = 3
	TopPatterns    = 3

	MaxPoolSize        = 200
	PoolSizeMultiplier = 5
)

// Where the preference predicate of a CandidateQuery came from.
const (
	SourceTallies     = "tallies"
	SourcePreferences = "preferences"
	SourceNone        = "none"
)

// FeatureSet is an OR over its non-empty dimensions.
type FeatureSet struct {
	Brands     []string
	Styles     []string
	Colors     []string
	Categories []string
	Patterns   []string
	Prices     []PriceWindow
}

func (f FeatureSet) Empty() bool {
	return len(f.Brands) == 0 && len(f.Styles) == 0 && len(f.Colors) == 0 &&
		len(f.Categories) == 0 && len(f.Patterns) == 0 && len(f.Prices) == 0
}

// Matches reports whether item satisfies any non-empty dimension.
// An empty set matches everything.
func (f FeatureSet) Matches(item *types.Item) bool {
	if f.Empty() {
		return true
	}
	if slices.Contains(f.Brands, item.Brand) {
		return true
	}
	if intersects(f.Styles, item.Style) || intersects(f.Colors, item.AvailableColors) {
		return true
	}
	if slices.Contains(f.Categories, item.Category) || slices.Contains(f.Patterns, item.Pattern) {
		return true
	}
	for _, w := range f.Prices {
		if w.Contains(item.Price) {
			return true
		}
	}
	return false
}

// CandidateQuery is the catalog filter for one feed request. The catalog
// repository translates it to SQL; Matches is the same predicate in memory.
type CandidateQuery struct {
	ExcludeIDs []uuid.UUID
	ActiveOnly bool
	Genders    []string
	Preference FeatureSet
	Source     string
	Sizes      []string
	PoolSize   int
}

// BuildCandidateQuery derives the candidate filter from a profile.
func BuildCandidateQuery(profile *types.UserProfile, gender string, limit int) CandidateQuery {
	q := CandidateQuery{
		ActiveOnly: true,
		Source:     SourceNone,
		PoolSize:   poolSize(limit),
	}
	if profile == nil {
		return q
	}

	q.ExcludeIDs = make([]uuid.UUID, 0, len(profile.LikedItems)+len(profile.DislikedItems))
	q.ExcludeIDs = append(q.ExcludeIDs, profile.LikedItems...)
	q.ExcludeIDs = append(q.ExcludeIDs, profile.DislikedItems...)

	switch user.NormalizeGender(gender) {
	case user.GenderMale:
		q.Genders = []string{"men", "unisex"}
	case user.GenderFemale:
		q.Genders = []string{"women", "unisex"}
	}

	tallies := profile.PreferenceTallies.Data()
	learned := FeatureSet{
		Brands:     TopFeatures(tallies.Brands, TopBrands),
		Styles:     TopFeatures(tallies.Styles, TopStyles),
		Colors:     TopFeatures(tallies.Colors, TopColors),
		Categories: TopFeatures(tallies.Categories, TopCategories),
		Patterns:   TopFeatures(tallies.Patterns, TopPatterns),
		Prices:     priceWindows(TopFeatures(tallies.PriceRanges, TopPriceRanges)),
	}
	prefs := profile.Preferences.Data()
	if !learned.Empty() {
		q.Preference = learned
		q.Source = SourceTallies
	} else {
		explicit := FeatureSet{
			Brands: nonEmpty(prefs.FavoriteBrands),
			Styles: nonEmpty(prefs.StylePreferences),
			Colors: nonEmpty(prefs.ColorPreferences),
		}
		if prefs.PriceRange != "" {
			explicit.Prices = priceWindows([]string{prefs.PriceRange})
		}
		if !explicit.Empty() {
			q.Preference = explicit
			q.Source = SourcePreferences
		}
	}

	q.Sizes = DeclaredSizes(prefs)
	return q
}

// DeclaredSizes lists the sizes a user declared, shoe size first.
func DeclaredSizes(p user.Preferences) []string {
	var sizes []string
	if p.ShoeSize != nil && *p.ShoeSize != 0 {
		sizes = append(sizes, strconv.FormatFloat(*p.ShoeSize, 'f', -1, 64))
	}
	for _, s := range []string{p.ShirtSize, p.PantsSize, p.ShortSize} {
		if s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// Matches evaluates the full query against a single item.
func (q CandidateQuery) Matches(item *types.Item) bool {
	if item == nil {
		return false
	}
	if q.ActiveOnly && !item.IsActive {
		return false
	}
	if slices.Contains(q.ExcludeIDs, item.ID) {
		return false
	}
	if len(q.Genders) > 0 && !slices.Contains(q.Genders, item.Gender) {
		return false
	}
	if len(q.Sizes) > 0 && !intersects(q.Sizes, item.AvailableSizes) {
		return false
	}
	return q.Preference.Matches(item)
}

func poolSize(limit int) int {
	if limit <= 0 {
		return 0
	}
	return min(limit*PoolSizeMultiplier, MaxPoolSize)
}

func intersects(want []string, have []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
