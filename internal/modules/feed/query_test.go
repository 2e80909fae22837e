package feed

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"gorm.io/datatypes"
)

func TestBuildCandidateQueryFromTallies(t *testing.T) {
	p := emptyProfile()
	liked, disliked := uuid.New(), uuid.New()
	p.LikedItems = datatypes.JSONSlice[uuid.UUID]{liked}
	p.DislikedItems = datatypes.JSONSlice[uuid.UUID]{disliked}

	tallies := user.NewPreferenceTallies()
	tallies.Brands = map[string]int{"Nike": 4, "Vans": 2, "Zara": -3}
	tallies.PriceRanges = map[string]int{"$50-100": 1, "$0-50": 2, "$200+": 1, "$100-200": 5}
	p.PreferenceTallies = datatypes.NewJSONType(tallies)

	q := BuildCandidateQuery(p, "Male", 20)

	if q.Source != SourceTallies {
		t.Fatalf("source=%q", q.Source)
	}
	if !reflect.DeepEqual(q.ExcludeIDs, []uuid.UUID{liked, disliked}) {
		t.Fatalf("exclude=%v", q.ExcludeIDs)
	}
	if !reflect.DeepEqual(q.Genders, []string{"men", "unisex"}) {
		t.Fatalf("genders=%v", q.Genders)
	}
	if !reflect.DeepEqual(q.Preference.Brands, []string{"Nike", "Vans"}) {
		t.Fatalf("brands=%v", q.Preference.Brands)
	}
	if len(q.Preference.Prices) != TopPriceRanges {
		t.Fatalf("expected %d price windows, got %d", TopPriceRanges, len(q.Preference.Prices))
	}
	if q.Preference.Prices[0].Bucket != "$100-200" || q.Preference.Prices[1].Bucket != "$0-50" {
		t.Fatalf("price order: %+v", q.Preference.Prices)
	}
	if q.PoolSize != 100 || !q.ActiveOnly {
		t.Fatalf("pool=%d active=%v", q.PoolSize, q.ActiveOnly)
	}
}

func TestBuildCandidateQueryColdStart(t *testing.T) {
	p := emptyProfile()
	shoe := 10.5
	p.Preferences = datatypes.NewJSONType(user.Preferences{
		ShoeSize:         &shoe,
		ShirtSize:        "M",
		FavoriteBrands:   []string{"Adidas"},
		ColorPreferences: []string{"Navy"},
		PriceRange:       "$200+",
	})
	// Non-positive tallies do not count as learned features.
	tallies := user.NewPreferenceTallies()
	tallies.Brands["Nike"] = -1
	p.PreferenceTallies = datatypes.NewJSONType(tallies)

	q := BuildCandidateQuery(p, "female", 50)
	if q.Source != SourcePreferences {
		t.Fatalf("source=%q", q.Source)
	}
	if !reflect.DeepEqual(q.Preference.Brands, []string{"Adidas"}) || !reflect.DeepEqual(q.Preference.Colors, []string{"Navy"}) {
		t.Fatalf("preference=%+v", q.Preference)
	}
	if len(q.Preference.Prices) != 1 || !q.Preference.Prices[0].Unbounded {
		t.Fatalf("prices=%+v", q.Preference.Prices)
	}
	if !reflect.DeepEqual(q.Sizes, []string{"10.5", "M"}) {
		t.Fatalf("sizes=%v", q.Sizes)
	}
	if !reflect.DeepEqual(q.Genders, []string{"women", "unisex"}) {
		t.Fatalf("genders=%v", q.Genders)
	}
	if q.PoolSize != MaxPoolSize {
		t.Fatalf("pool size should cap at %d, got %d", MaxPoolSize, q.PoolSize)
	}
}

func TestBuildCandidateQueryWithoutAnySignal(t *testing.T) {
	q := BuildCandidateQuery(emptyProfile(), "non-binary", 3)
	if q.Source != SourceNone || !q.Preference.Empty() {
		t.Fatalf("expected no preference predicate: %+v", q)
	}
	if len(q.Genders) != 0 || len(q.Sizes) != 0 {
		t.Fatalf("expected no gender/size filter: %+v", q)
	}
	if q.PoolSize != 15 {
		t.Fatalf("pool=%d", q.PoolSize)
	}
}

func TestCandidateQueryMatches(t *testing.T) {
	p := emptyProfile()
	tallies := user.NewPreferenceTallies()
	tallies.Styles["Streetwear"] = 2
	p.PreferenceTallies = datatypes.NewJSONType(tallies)
	seen := testItem(9, "Nike", 40)
	p.LikedItems = datatypes.JSONSlice[uuid.UUID]{seen.ID}
	shoe := 10.0
	p.Preferences = datatypes.NewJSONType(user.Preferences{ShoeSize: &shoe})

	q := BuildCandidateQuery(p, "male", 20)

	hit := testItem(1, "Vans", 60)
	if !q.Matches(hit) {
		t.Fatalf("streetwear item in size 10 should match")
	}
	if q.Matches(seen) {
		t.Fatalf("swiped item should be excluded")
	}

	womens := testItem(2, "Vans", 60)
	womens.Gender = "women"
	if q.Matches(womens) {
		t.Fatalf("women's item should be filtered for male user")
	}

	wrongSize := testItem(3, "Vans", 60)
	wrongSize.AvailableSizes = datatypes.JSONSlice[string]{"XL"}
	if q.Matches(wrongSize) {
		t.Fatalf("size filter ignored")
	}

	inactive := testItem(4, "Vans", 60)
	inactive.IsActive = false
	if q.Matches(inactive) {
		t.Fatalf("inactive item matched")
	}

	formal := testItem(5, "Vans", 60)
	formal.Style = datatypes.JSONSlice[string]{"Formal"}
	if q.Matches(formal) {
		t.Fatalf("item sharing no top feature matched")
	}
}
