package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	"github.com/yungbote/styleswipe-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/ctxutil"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type testEnv struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	profiles repos.UserProfileRepo
	tokens   repos.UserTokenRepo
	items    repos.ItemRepo
	carts    repos.CartItemRepo
	swipes   domainagg.SwipeAggregate
}

func newTestEnv(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()
	log := testutil.Logger(t)
	env := &testEnv{
		db:       db,
		log:      log,
		users:    repos.NewUserRepo(db, log),
		profiles: repos.NewUserProfileRepo(db, log),
		tokens:   repos.NewUserTokenRepo(db, log),
		items:    repos.NewItemRepo(db, log),
		carts:    repos.NewCartItemRepo(db, log),
	}
	env.swipes = aggregates.NewSwipeAggregate(aggregates.SwipeAggregateDeps{
		Base:     aggregates.BaseDeps{DB: db, Log: log},
		Profiles: env.profiles,
		Items:    env.items,
	})
	return env
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.db, e.log, nil, e.users, e.profiles, e.tokens, AuthConfig{
		JWTSecretKey: "test-secret",
		BcryptCost:   bcrypt.MinCost,
	})
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.db, e.log, e.users, e.profiles, e.items, e.carts, e.swipes, bcrypt.MinCost)
}

func asUser(id uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), id)
}

func uniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

func requireAPIStatus(t *testing.T, err error, status int) *apierr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected api error with status %d, got nil", status)
	}
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("expected api error, got %T: %v", err, err)
	}
	if ae.Status != status {
		t.Fatalf("status: got %d want %d (%v)", ae.Status, status, err)
	}
	return ae
}

func requireAggCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	var ae *domainagg.Error
	if !errors.As(err, &ae) || ae.Code != code {
		t.Fatalf("expected aggregate code %q, got %v", code, err)
	}
}
