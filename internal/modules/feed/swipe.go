package feed

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"gorm.io/datatypes"
)

type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
	ActionUndo    Action = "undo"
)

var (
	// ErrNotSwiped is returned when undo targets an item in neither set.
	ErrNotSwiped = errors.New("item was not swiped")
	// ErrInconsistentSwipe is returned when an item sits in both sets.
	ErrInconsistentSwipe = errors.New("item is both liked and disliked")
	ErrUnknownAction     = errors.New("unknown swipe action")
)

type SwipeOutcome struct {
	Action        Action
	Changed       bool
	WasLiked      bool
	WasDisliked   bool
	LikedCount    int
	DislikedCount int
	Message       string
}

// ApplySwipe runs one swipe transition against profile in place. On error
// the profile is left untouched.
//
// A like after a dislike applies two positive deltas (one cancelling the
// dislike, one for the like); dislike after like mirrors it.
func ApplySwipe(profile *types.UserProfile, item *types.Item, action Action) (out SwipeOutcome, err error) {
	out.Action = action
	if profile == nil || item == nil {
		return out, fmt.Errorf("apply swipe: profile and item are required")
	}
	liked := slices.Contains(profile.LikedItems, item.ID)
	disliked := slices.Contains(profile.DislikedItems, item.ID)
	out.WasLiked, out.WasDisliked = liked, disliked
	defer func() {
		out.LikedCount = len(profile.LikedItems)
		out.DislikedCount = len(profile.DislikedItems)
	}()

	tallies := profile.PreferenceTallies.Data().Clone()

	switch action {
	case ActionLike:
		if liked {
			out.Message = "Item already liked"
			return out, nil
		}
		if disliked {
			profile.DislikedItems = without(profile.DislikedItems, item.ID)
			ApplyTally(&tallies, item, true)
		}
		profile.LikedItems = append(profile.LikedItems, item.ID)
		ApplyTally(&tallies, item, true)
		out.Message = "Item liked successfully"

	case ActionDislike:
		if disliked {
			out.Message = "Item already disliked"
			return out, nil
		}
		if liked {
			profile.LikedItems = without(profile.LikedItems, item.ID)
			ApplyTally(&tallies, item, false)
		}
		profile.DislikedItems = append(profile.DislikedItems, item.ID)
		ApplyTally(&tallies, item, false)
		out.Message = "Item disliked successfully"

	case ActionUndo:
		switch {
		case liked && disliked:
			return out, ErrInconsistentSwipe
		case liked:
			profile.LikedItems = without(profile.LikedItems, item.ID)
			ApplyTally(&tallies, item, false)
		case disliked:
			profile.DislikedItems = without(profile.DislikedItems, item.ID)
			ApplyTally(&tallies, item, true)
		default:
			return out, ErrNotSwiped
		}
		out.Message = "Swipe undone successfully"

	default:
		return out, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	profile.PreferenceTallies = datatypes.NewJSONType(tallies)
	out.Changed = true
	return out, nil
}

func without(ids datatypes.JSONSlice[uuid.UUID], id uuid.UUID) datatypes.JSONSlice[uuid.UUID] {
	out := make(datatypes.JSONSlice[uuid.UUID], 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
