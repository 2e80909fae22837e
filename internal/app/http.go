package app

import (
	"net"

	"github.com/yungbote/styleswipe-backend/internal/http"
	httpH "github.com/yungbote/styleswipe-backend/internal/http/handlers"
	httpMW "github.com/yungbote/styleswipe-backend/internal/http/middleware"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	User   *httpH.UserHandler
	Item   *httpH.ItemHandler
	Cart   *httpH.CartHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Auth:   httpH.NewAuthHandler(services.Auth),
		User: httpH.NewUserHandlerWithDeps(httpH.UserHandlerDeps{
			Log:         log,
			UserService: services.User,
			Avatars:     services.Avatar,
		}),
		Item: httpH.NewItemHandler(services.Feed, services.Swipe, services.Item),
		Cart: httpH.NewCartHandler(services.Cart),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(net.JoinHostPort("", cfg.Port), http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		UserHandler:    handlers.User,
		ItemHandler:    handlers.Item,
		CartHandler:    handlers.Cart,
	})
}
