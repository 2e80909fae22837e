package feed

import (
	"testing"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"gorm.io/datatypes"
)

func TestScoreIsAdditive(t *testing.T) {
	tallies := user.NewPreferenceTallies()
	tallies.Styles["Casual"] = 3
	tallies.Styles["Boho"] = 3
	tallies.Colors["Red"] = -2

	item := &types.Item{
		ID:              idFor(1),
		Brand:           "Zara",
		Category:        "dresses",
		Price:           75,
		Style:           datatypes.JSONSlice[string]{"Casual", "Boho"},
		AvailableColors: datatypes.JSONSlice[string]{"Red"},
	}
	if got := Score(tallies, item); got != 4 {
		t.Fatalf("score=%d want 4", got)
	}

	tallies.Brands["Zara"] = 1
	tallies.PriceRanges["$50-100"] = 2
	tallies.Categories["dresses"] = -1
	if got := Score(tallies, item); got != 6 {
		t.Fatalf("score=%d want 6", got)
	}
}

func TestScoreWithEmptyTallies(t *testing.T) {
	if got := Score(Tallies{}, testItem(1, "Nike", 20)); got != 0 {
		t.Fatalf("score=%d want 0", got)
	}
	if got := Score(user.NewPreferenceTallies(), nil); got != 0 {
		t.Fatalf("nil item should score 0")
	}
}
