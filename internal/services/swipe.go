package services

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/modules/feed"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type SwipeService interface {
	Like(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error)
	Dislike(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error)
	Undo(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error)
}

type swipeService struct {
	log       *logger.Logger
	metrics   *observability.Metrics
	aggregate domainagg.SwipeAggregate
	// conflictRetries is how many extra attempts a swipe gets after a
	// version conflict. Zero surfaces the first conflict.
	conflictRetries int
}

func NewSwipeService(log *logger.Logger, metrics *observability.Metrics, aggregate domainagg.SwipeAggregate, conflictRetries int) SwipeService {
	return &swipeService{
		log:             log.With("service", "SwipeService"),
		metrics:         metrics,
		aggregate:       aggregate,
		conflictRetries: max(conflictRetries, 0),
	}
}

func (ss *swipeService) Like(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error) {
	return ss.run(ctx, feed.ActionLike, itemID, ss.aggregate.Like)
}

func (ss *swipeService) Dislike(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error) {
	return ss.run(ctx, feed.ActionDislike, itemID, ss.aggregate.Dislike)
}

func (ss *swipeService) Undo(ctx context.Context, itemID uuid.UUID) (domainagg.SwipeResult, error) {
	return ss.run(ctx, feed.ActionUndo, itemID, ss.aggregate.Undo)
}

type swipeFn func(ctx context.Context, in domainagg.SwipeInput) (domainagg.SwipeResult, error)

func (ss *swipeService) run(ctx context.Context, action feed.Action, itemID uuid.UUID, fn swipeFn) (domainagg.SwipeResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return domainagg.SwipeResult{}, err
	}
	if itemID == uuid.Nil {
		return domainagg.SwipeResult{}, apierr.Validation("invalid_item_id", "Valid item ID is required.")
	}

	ctx, span := observability.Tracer().Start(ctx, "SwipeService."+string(action))
	defer span.End()
	span.SetAttributes(attribute.String("swipe.item_id", itemID.String()))

	in := domainagg.SwipeInput{UserID: userID, ItemID: itemID}
	var res domainagg.SwipeResult
	for attempt := 0; ; attempt++ {
		res, err = fn(ctx, in)
		if err == nil || attempt >= ss.conflictRetries || !domainagg.IsCode(err, domainagg.CodeConflict) {
			break
		}
		ss.metrics.IncAggregateRetry("Feed.Swipe")
		ss.log.Debug("Retrying swipe after conflict", "user_id", userID, "item_id", itemID, "attempt", attempt+1)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		return res, err
	}

	span.SetAttributes(attribute.Bool("swipe.changed", res.Changed))
	ss.metrics.IncSwipe(string(action), res.Changed)
	return res, nil
}
