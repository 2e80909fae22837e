package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type Services struct {
	Auth   services.AuthService
	User   services.UserService
	Feed   services.FeedService
	Swipe  services.SwipeService
	Item   services.ItemService
	Cart   services.CartService
	Avatar services.AvatarService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, metrics *observability.Metrics, reposet repos.Set, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	swipes := aggregates.NewSwipeAggregate(aggregates.SwipeAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Hooks:  aggregates.NewObservabilityHooks(metrics),
			Locker: clients.SwipeLocker,
		},
		Profiles: reposet.Profiles,
		Items:    reposet.Items,
	})

	avatars, err := services.NewAvatarService(log, reposet.Users, cfg.AvatarSize)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		Auth:   services.NewAuthService(db, log, metrics, reposet.Users, reposet.Profiles, reposet.Tokens, cfg.Auth()),
		User:   services.NewUserService(db, log, reposet.Users, reposet.Profiles, reposet.Items, reposet.CartItems, swipes, cfg.BcryptCost),
		Feed:   services.NewFeedService(log, metrics, reposet.Users, reposet.Profiles, reposet.Items, cfg.Feed(), nil),
		Swipe:  services.NewSwipeService(log, metrics, swipes, cfg.SwipeConflictRetries),
		Item:   services.NewItemService(log, reposet.Items),
		Cart:   services.NewCartService(db, log, reposet.Items, reposet.CartItems),
		Avatar: avatars,
	}, nil
}
