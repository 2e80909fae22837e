package aggregates

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/modules/feed"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

type SwipeAggregateDeps struct {
	Base BaseDeps

	Profiles repos.UserProfileRepo
	Items    repos.ItemRepo
}

type swipeAggregate struct {
	deps SwipeAggregateDeps
}

func NewSwipeAggregate(deps SwipeAggregateDeps) domainagg.SwipeAggregate {
	deps.Base = deps.Base.withDefaults()
	return &swipeAggregate{deps: deps}
}

func (a *swipeAggregate) Contract() domainagg.Contract {
	return domainagg.SwipeAggregateContract
}

func (a *swipeAggregate) Like(ctx context.Context, in domainagg.SwipeInput) (domainagg.SwipeResult, error) {
	return a.swipe(ctx, "Feed.Swipe.Like", in, feed.ActionLike)
}

func (a *swipeAggregate) Dislike(ctx context.Context, in domainagg.SwipeInput) (domainagg.SwipeResult, error) {
	return a.swipe(ctx, "Feed.Swipe.Dislike", in, feed.ActionDislike)
}

func (a *swipeAggregate) Undo(ctx context.Context, in domainagg.SwipeInput) (domainagg.SwipeResult, error) {
	return a.swipe(ctx, "Feed.Swipe.Undo", in, feed.ActionUndo)
}

func (a *swipeAggregate) swipe(ctx context.Context, op string, in domainagg.SwipeInput, action feed.Action) (domainagg.SwipeResult, error) {
	out := domainagg.SwipeResult{UserID: in.UserID, ItemID: in.ItemID, Action: string(action)}
	if in.UserID == uuid.Nil || in.ItemID == uuid.Nil {
		return out, MapError(op, ValidationError("user id and item id are required"))
	}

	err := executeLockedWrite(ctx, a.deps.Base, op, domainagg.SwipeAggregateContract.LockKey(in.UserID), func(dbc dbctx.Context) error {
		profile, err := a.loadProfile(dbc, in.UserID)
		if err != nil {
			return err
		}
		item, err := a.deps.Items.GetByID(dbc, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return NotFoundError("item not found")
		}

		expected := profile.Version
		res, err := feed.ApplySwipe(profile, item, action)
		switch {
		case errors.Is(err, feed.ErrNotSwiped):
			return InvariantError("item was not swiped")
		case errors.Is(err, feed.ErrInconsistentSwipe):
			return InvariantError("item is both liked and disliked")
		case err != nil:
			return err
		}
		out.Changed = res.Changed
		out.WasLiked = res.WasLiked
		out.WasDisliked = res.WasDisliked
		out.LikedCount = res.LikedCount
		out.DislikedCount = res.DislikedCount
		out.Message = res.Message
		out.Version = expected
		if !res.Changed {
			return nil
		}

		if err := a.save(dbc, profile, expected); err != nil {
			return err
		}
		out.Version = expected + 1
		return nil
	})
	return out, err
}

// RemoveLiked runs an undo for every listed item that is currently liked, in
// a single versioned write. Items missing from the catalog leave the liked
// set without a tally change.
func (a *swipeAggregate) RemoveLiked(ctx context.Context, in domainagg.RemoveLikedInput) (domainagg.RemoveLikedResult, error) {
	const op = "Feed.Swipe.RemoveLiked"
	out := domainagg.RemoveLikedResult{UserID: in.UserID, Removed: []uuid.UUID{}}
	if in.UserID == uuid.Nil {
		return out, MapError(op, ValidationError("user id is required"))
	}
	if len(in.ItemIDs) == 0 {
		return out, MapError(op, ValidationError("at least one item id is required"))
	}

	err := executeLockedWrite(ctx, a.deps.Base, op, domainagg.SwipeAggregateContract.LockKey(in.UserID), func(dbc dbctx.Context) error {
		profile, err := a.loadProfile(dbc, in.UserID)
		if err != nil {
			return err
		}
		expected := profile.Version
		out.Version = expected

		targets := make([]uuid.UUID, 0, len(in.ItemIDs))
		for _, id := range in.ItemIDs {
			if slices.Contains(profile.LikedItems, id) && !slices.Contains(targets, id) {
				targets = append(targets, id)
			}
		}
		if len(targets) == 0 {
			out.LikedCount = len(profile.LikedItems)
			return nil
		}

		items, err := a.deps.Items.GetByIDs(dbc, targets)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*types.Item, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		for _, id := range targets {
			item, ok := byID[id]
			if !ok {
				profile.LikedItems = slices.DeleteFunc(profile.LikedItems, func(v uuid.UUID) bool { return v == id })
				out.Removed = append(out.Removed, id)
				continue
			}
			if _, err := feed.ApplySwipe(profile, item, feed.ActionUndo); err != nil {
				if errors.Is(err, feed.ErrInconsistentSwipe) {
					return InvariantError("item is both liked and disliked")
				}
				return err
			}
			out.Removed = append(out.Removed, id)
		}
		out.LikedCount = len(profile.LikedItems)

		if err := a.save(dbc, profile, expected); err != nil {
			return err
		}
		out.Version = expected + 1
		return nil
	})
	return out, err
}

func (a *swipeAggregate) loadProfile(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := a.deps.Profiles.GetByUserID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, NotFoundError("user profile not found")
	}
	return profile, nil
}

func (a *swipeAggregate) save(dbc dbctx.Context, profile *types.UserProfile, expected int) error {
	ok, err := a.deps.Base.CASGuard.UpdateByVersion(dbc, domainagg.SwipeAggregateContract, profile.ID, expected, map[string]any{
		"liked_items":        profile.LikedItems,
		"disliked_items":     profile.DislikedItems,
		"preference_tallies": profile.PreferenceTallies,
		"updated_at":         time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return RequireCASSuccess(ok, "user profile was modified concurrently")
}
