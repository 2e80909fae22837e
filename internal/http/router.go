package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/styleswipe-backend/internal/http/handlers"
	httpMW "github.com/yungbote/styleswipe-backend/internal/http/middleware"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	ItemHandler    *httpH.ItemHandler
	CartHandler    *httpH.CartHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	users := r.Group("/api/users")
	items := r.Group("/api/items")

	// Auth (public)
	if cfg.AuthHandler != nil {
		users.POST("/register", cfg.AuthHandler.Register)
		users.POST("/login", cfg.AuthHandler.Login)
		users.POST("/token", cfg.AuthHandler.Refresh)
		users.POST("/logout", cfg.AuthHandler.Logout)
	}

	if cfg.AuthMiddleware != nil {
		users.Use(cfg.AuthMiddleware.RequireAuth())
		items.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Profile + account
	if cfg.UserHandler != nil {
		users.POST("/onboarding", cfg.UserHandler.Onboarding)
		users.GET("/profile", cfg.UserHandler.GetProfile)
		users.PUT("/profile", cfg.UserHandler.UpdateProfile)
		users.GET("/account", cfg.UserHandler.GetAccount)
		users.PUT("/account", cfg.UserHandler.UpdateAccount)
		users.GET("/account/liked-items", cfg.UserHandler.ListLikedItems)
		users.DELETE("/account/liked-items", cfg.UserHandler.DeleteLikedItems)
		users.GET("/me/avatar", cfg.UserHandler.GetAvatar)
	}

	// Cart
	if cfg.CartHandler != nil {
		users.POST("/account/add-to-cart", cfg.CartHandler.AddToCart)
		users.GET("/cart", cfg.CartHandler.ListCart)
		users.PUT("/cart", cfg.CartHandler.UpdateCartItem)
		users.DELETE("/cart", cfg.CartHandler.RemoveCartItem)
	}

	// Feed + swipes
	if cfg.ItemHandler != nil {
		items.GET("/feed", cfg.ItemHandler.GetFeed)
		items.POST("/like", cfg.ItemHandler.Like)
		items.POST("/dislike", cfg.ItemHandler.Dislike)
		items.POST("/undo", cfg.ItemHandler.Undo)
		items.GET("/:id", cfg.ItemHandler.GetItem)
	}

	return r
}
