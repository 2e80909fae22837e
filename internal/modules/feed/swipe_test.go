package feed

import (
	"encoding/json"
	"errors"
	"math/rand"
	"slices"
	"testing"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
)

func snapshot(t *testing.T, p *types.UserProfile) string {
	t.Helper()
	b, err := json.Marshal(struct {
		Liked    any
		Disliked any
		Tallies  any
	}{p.LikedItems, p.DislikedItems, p.PreferenceTallies.Data()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func mustSwipe(t *testing.T, p *types.UserProfile, it *types.Item, a Action) SwipeOutcome {
	t.Helper()
	out, err := ApplySwipe(p, it, a)
	if err != nil {
		t.Fatalf("%s: %v", a, err)
	}
	return out
}

func TestLikeIsIdempotent(t *testing.T) {
	p := emptyProfile()
	it := testItem(1, "Nike", 60)
	mustSwipe(t, p, it, ActionLike)
	before := snapshot(t, p)

	out := mustSwipe(t, p, it, ActionLike)
	if out.Changed || !out.WasLiked || out.Message != "Item already liked" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if after := snapshot(t, p); after != before {
		t.Fatalf("no-op changed state:\n%s\n%s", before, after)
	}

	mustSwipe(t, p, it, ActionDislike)
	before = snapshot(t, p)
	if out := mustSwipe(t, p, it, ActionDislike); out.Changed {
		t.Fatalf("repeat dislike should be a no-op")
	}
	if snapshot(t, p) != before {
		t.Fatalf("repeat dislike changed state")
	}
}

func TestSwipeThenUndoRestoresState(t *testing.T) {
	chains := map[string][]Action{
		"like":         {ActionLike},
		"dislike":      {ActionDislike},
		"like-dislike": {ActionLike, ActionDislike},
		"dislike-like": {ActionDislike, ActionLike},
	}
	for name, chain := range chains {
		t.Run(name, func(t *testing.T) {
			p := emptyProfile()
			mustSwipe(t, p, testItem(2, "Vans", 250), ActionLike)
			it := testItem(1, "Nike", 60)
			before := snapshot(t, p)

			for _, a := range chain {
				mustSwipe(t, p, it, a)
			}
			if out := mustSwipe(t, p, it, ActionUndo); !out.Changed {
				t.Fatalf("undo did not change state")
			}
			if after := snapshot(t, p); after != before {
				t.Fatalf("not restored:\n%s\n%s", before, after)
			}
		})
	}
}

func TestLikeAfterDislikeAppliesTwoDeltas(t *testing.T) {
	p := emptyProfile()
	it := testItem(1, "Nike", 60)

	mustSwipe(t, p, it, ActionDislike)
	if got := p.PreferenceTallies.Data().Brands["Nike"]; got != -1 {
		t.Fatalf("after dislike: %d", got)
	}
	out := mustSwipe(t, p, it, ActionLike)
	if !out.WasDisliked || out.LikedCount != 1 || out.DislikedCount != 0 {
		t.Fatalf("outcome: %+v", out)
	}
	if got := p.PreferenceTallies.Data().Brands["Nike"]; got != 1 {
		t.Fatalf("after like: %d", got)
	}
	if got := p.PreferenceTallies.Data().Styles["Casual"]; got != 1 {
		t.Fatalf("styles after like: %d", got)
	}

	out = mustSwipe(t, p, it, ActionDislike)
	if !out.WasLiked {
		t.Fatalf("outcome: %+v", out)
	}
	if got := p.PreferenceTallies.Data().Brands["Nike"]; got != -1 {
		t.Fatalf("after dislike again: %d", got)
	}

	mustSwipe(t, p, it, ActionUndo)
	if got := p.PreferenceTallies.Data().Brands["Nike"]; got != 0 {
		t.Fatalf("after undo: %d", got)
	}
}

func TestUndoOfUnswipedItemFails(t *testing.T) {
	p := emptyProfile()
	before := snapshot(t, p)
	_, err := ApplySwipe(p, testItem(1, "Nike", 60), ActionUndo)
	if !errors.Is(err, ErrNotSwiped) {
		t.Fatalf("expected ErrNotSwiped, got %v", err)
	}
	if snapshot(t, p) != before {
		t.Fatalf("failed undo mutated profile")
	}
	if _, err := ApplySwipe(p, testItem(1, "Nike", 60), Action("superlike")); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRandomSwipesKeepSetsDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	p := emptyProfile()
	items := []*types.Item{testItem(1, "Nike", 10), testItem(2, "Zara", 70), testItem(3, "Vans", 150), testItem(4, "Supreme", 300)}
	actions := []Action{ActionLike, ActionDislike, ActionUndo}

	for i := 0; i < 500; i++ {
		it := items[rng.Intn(len(items))]
		_, err := ApplySwipe(p, it, actions[rng.Intn(len(actions))])
		if err != nil && !errors.Is(err, ErrNotSwiped) {
			t.Fatalf("step %d: %v", i, err)
		}
		for _, id := range p.LikedItems {
			if slices.Contains(p.DislikedItems, id) {
				t.Fatalf("step %d: %s in both sets", i, id)
			}
		}
	}

	// Undo everything; every tally must return to zero.
	for _, it := range items {
		if _, err := ApplySwipe(p, it, ActionUndo); err != nil && !errors.Is(err, ErrNotSwiped) {
			t.Fatalf("final undo: %v", err)
		}
	}
	tallies := p.PreferenceTallies.Data()
	for _, dim := range []map[string]int{tallies.Brands, tallies.Styles, tallies.Colors, tallies.PriceRanges, tallies.Categories, tallies.Patterns} {
		for k, v := range dim {
			if v != 0 {
				t.Fatalf("tally %s=%d after undoing every swipe", k, v)
			}
		}
	}
	if len(p.LikedItems) != 0 || len(p.DislikedItems) != 0 {
		t.Fatalf("sets not empty: %v %v", p.LikedItems, p.DislikedItems)
	}
}
