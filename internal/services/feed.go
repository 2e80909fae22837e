package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"github.com/yungbote/styleswipe-backend/internal/modules/feed"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

const EmptyFeedMessage = "No more items available"

type FeedConfig struct {
	DefaultLimit           int
	MaxLimit               int
	DefaultExplorationRate float64
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{DefaultLimit: 20, MaxLimit: 100, DefaultExplorationRate: 0.2}
}

type FeedRequest struct {
	Limit           int
	ExplorationRate float64
}

type FeedPage struct {
	Items             []*types.Item `json:"items"`
	TotalReturned     int           `json:"totalReturned"`
	PersonalizedCount int           `json:"personalizedCount"`
	ExplorationCount  int           `json:"explorationCount"`
	Source            string        `json:"source"`
	Message           string        `json:"message,omitempty"`
}

// RandFactory returns the random source for one feed assembly.
type RandFactory func() *rand.Rand

type FeedService interface {
	ParseRequest(limitRaw, rateRaw string) (FeedRequest, error)
	GetFeed(ctx context.Context, req FeedRequest) (*FeedPage, error)
}

type feedService struct {
	log         *logger.Logger
	metrics     *observability.Metrics
	userRepo    repos.UserRepo
	profileRepo repos.UserProfileRepo
	itemRepo    repos.ItemRepo
	cfg         FeedConfig
	newRand     RandFactory
}

func NewFeedService(
	log *logger.Logger,
	metrics *observability.Metrics,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	itemRepo repos.ItemRepo,
	cfg FeedConfig,
	newRand RandFactory,
) FeedService {
	def := DefaultFeedConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultExplorationRate < 0 || cfg.DefaultExplorationRate > 1 {
		cfg.DefaultExplorationRate = def.DefaultExplorationRate
	}
	if newRand == nil {
		newRand = func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	return &feedService{
		log:         log.With("service", "FeedService"),
		metrics:     metrics,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		itemRepo:    itemRepo,
		cfg:         cfg,
		newRand:     newRand,
	}
}

// ParseRequest reads the raw query values. A missing, non-numeric or
// non-positive limit falls back to the default; an unparseable rate falls
// back to the default and a parsed rate outside [0,1] is rejected.
func (fs *feedService) ParseRequest(limitRaw, rateRaw string) (FeedRequest, error) {
	req := FeedRequest{Limit: fs.cfg.DefaultLimit, ExplorationRate: fs.cfg.DefaultExplorationRate}

	if n, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil && n > 0 {
		req.Limit = min(n, fs.cfg.MaxLimit)
	}

	if raw := strings.TrimSpace(rateRaw); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil, math.IsNaN(rate):
			// keep the default
		case rate < 0 || rate > 1:
			return req, apierr.Validation("invalid_exploration_rate", "explorationRate must be between 0 and 1.")
		default:
			req.ExplorationRate = rate
		}
	}
	return req, nil
}

func (fs *feedService) GetFeed(ctx context.Context, req FeedRequest) (*FeedPage, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := observability.Tracer().Start(ctx, "FeedService.GetFeed")
	defer span.End()

	if req.Limit <= 0 {
		req.Limit = fs.cfg.DefaultLimit
	}
	req.Limit = min(req.Limit, fs.cfg.MaxLimit)

	var (
		u       *types.User
		profile *types.UserProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = fs.userRepo.GetByID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = fs.profileRepo.GetByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load user")
		return nil, fmt.Errorf("load user state: %w", err)
	}
	if u == nil {
		return nil, apierr.Unauthorized("User not found")
	}
	if profile == nil {
		profile = user.NewUserProfile(userID)
	}

	q := feed.BuildCandidateQuery(profile, u.Gender, req.Limit)
	pool, err := fs.itemRepo.FindCandidates(dbctx.Context{Ctx: ctx}, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find candidates")
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	span.SetAttributes(
		attribute.String("feed.source", q.Source),
		attribute.Int("feed.limit", req.Limit),
		attribute.Float64("feed.exploration_rate", req.ExplorationRate),
		attribute.Int("feed.pool_size", len(pool)),
	)

	if len(pool) == 0 {
		fs.metrics.ObserveFeed(q.Source, 0, 0)
		return &FeedPage{Items: []*types.Item{}, Source: q.Source, Message: EmptyFeedMessage}, nil
	}

	scored := feed.ScoreAll(profile.PreferenceTallies.Data(), pool)
	asm := feed.Assemble(scored, req.Limit, req.ExplorationRate, fs.newRand())
	fs.metrics.ObserveFeed(q.Source, asm.PersonalizedCount, asm.ExplorationCount)
	fs.log.Debug("Feed assembled",
		"user_id", userID,
		"source", q.Source,
		"pool", len(pool),
		"personalized", asm.PersonalizedCount,
		"exploration", asm.ExplorationCount,
	)

	return &FeedPage{
		Items:             asm.Items,
		TotalReturned:     len(asm.Items),
		PersonalizedCount: asm.PersonalizedCount,
		ExplorationCount:  asm.ExplorationCount,
		Source:            q.Source,
	}, nil
}

// ItemService serves single catalog reads.
type ItemService interface {
	GetItem(ctx context.Context, itemID uuid.UUID) (*types.Item, error)
}

type itemService struct {
	log      *logger.Logger
	itemRepo repos.ItemRepo
}

func NewItemService(log *logger.Logger, itemRepo repos.ItemRepo) ItemService {
	return &itemService{log: log.With("service", "ItemService"), itemRepo: itemRepo}
}

func (is *itemService) GetItem(ctx context.Context, itemID uuid.UUID) (*types.Item, error) {
	it, err := is.itemRepo.GetByID(dbctx.Context{Ctx: ctx}, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if it == nil {
		return nil, apierr.NotFound("item_not_found", "Item not found")
	}
	return it, nil
}
