package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var SwipeAggregateContract = Contract{
	Name:          "Feed.SwipeAggregate",
	Table:         "user_profile",
	VersionColumn: "version",
	LockPrefix:    "swipe",
	Notes:         "Owns liked/disliked set membership and preference tally consistency for a user profile.",
}

// SwipeAggregate owns the swipe state of a user profile.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type SwipeAggregate interface {
	Aggregate

	// Like moves an item into the liked set, compensating a prior dislike.
	Like(ctx context.Context, in SwipeInput) (SwipeResult, error)

	// Dislike moves an item into the disliked set, compensating a prior like.
	Dislike(ctx context.Context, in SwipeInput) (SwipeResult, error)

	// Undo removes an item from whichever set holds it and reverses its tally delta.
	Undo(ctx context.Context, in SwipeInput) (SwipeResult, error)

	// RemoveLiked undoes the likes for several items in one write. Items not
	// currently liked are skipped.
	RemoveLiked(ctx context.Context, in RemoveLikedInput) (RemoveLikedResult, error)
}

type SwipeInput struct {
	UserID uuid.UUID
	ItemID uuid.UUID
}

type SwipeResult struct {
	UserID        uuid.UUID
	ItemID        uuid.UUID
	Action        string
	Changed       bool
	WasLiked      bool
	WasDisliked   bool
	LikedCount    int
	DislikedCount int
	Version       int
	Message       string
}

type RemoveLikedInput struct {
	UserID  uuid.UUID
	ItemIDs []uuid.UUID
}

type RemoveLikedResult struct {
	UserID     uuid.UUID
	Removed    []uuid.UUID
	LikedCount int
	Version    int
}
