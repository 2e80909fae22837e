package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/ctxutil"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

const (
	DefaultLikedPageSize = 20
	MaxLikedPageSize     = 100
)

type ProfileView struct {
	User          *types.User       `json:"user"`
	Preferences   types.Preferences `json:"preferences"`
	LikedCount    int               `json:"likedCount"`
	DislikedCount int               `json:"dislikedCount"`
}

type AccountView struct {
	User          *types.User `json:"user"`
	LikedCount    int         `json:"likedCount"`
	DislikedCount int         `json:"dislikedCount"`
	CartCount     int64       `json:"cartCount"`
}

type LikedItemsPage struct {
	Items      []*types.Item `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// ProfileUpdate is a partial update; nil fields are left as they are.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	Gender         *string
	DateOfBirth    *string
	ProfilePicture *string
	Preferences    *types.Preferences
}

type OnboardingInput struct {
	Gender      string
	Preferences types.Preferences
}

type AccountUpdate struct {
	Username        *string
	Email           *string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

type UserService interface {
	GetProfile(ctx context.Context) (*ProfileView, error)
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*ProfileView, error)
	Onboard(ctx context.Context, in OnboardingInput) (*ProfileView, error)
	GetAccount(ctx context.Context) (*AccountView, error)
	UpdateAccount(ctx context.Context, in AccountUpdate) (*AccountView, error)
	ListLikedItems(ctx context.Context, page, limit int) (*LikedItemsPage, error)
	DeleteLikedItems(ctx context.Context, itemIDs []uuid.UUID) (domainagg.RemoveLikedResult, error)
}

type userService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.UserProfileRepo
	itemRepo    repos.ItemRepo
	cartRepo    repos.CartItemRepo
	swipes      domainagg.SwipeAggregate
	bcryptCost  int
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	itemRepo repos.ItemRepo,
	cartRepo repos.CartItemRepo,
	swipes domainagg.SwipeAggregate,
	bcryptCost int,
) UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		db:          db,
		log:         log.With("service", "UserService"),
		userRepo:    userRepo,
		profileRepo: profileRepo,
		itemRepo:    itemRepo,
		cartRepo:    cartRepo,
		swipes:      swipes,
		bcryptCost:  bcryptCost,
	}
}

func requestUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized("Authentication required")
	}
	return rd.UserID, nil
}

// loadUserAndProfile reads both rows concurrently. A missing profile is
// treated as an empty one.
func (us *userService) loadUserAndProfile(ctx context.Context, userID uuid.UUID) (*types.User, *types.UserProfile, error) {
	var (
		u       *types.User
		profile *types.UserProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = us.userRepo.GetByID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = us.profileRepo.GetByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, nil, apierr.Unauthorized("User not found")
	}
	if profile == nil {
		profile = user.NewUserProfile(userID)
	}
	return u, profile, nil
}

func (us *userService) GetProfile(ctx context.Context) (*ProfileView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, profile, err := us.loadUserAndProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileView(u, profile), nil
}

func (us *userService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*ProfileView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) > 100 {
			return nil, apierr.Validation("invalid_name", "Name must be at most 100 characters.")
		}
		updates["name"] = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if len(bio) > 500 {
			return nil, apierr.Validation("invalid_bio", "Bio must be at most 500 characters.")
		}
		updates["bio"] = bio
	}
	if in.Gender != nil {
		if err := validateGender(*in.Gender); err != nil {
			return nil, err
		}
		updates["gender"] = user.NormalizeGender(*in.Gender)
	}
	if in.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}
	if in.ProfilePicture != nil {
		updates["profile_picture"] = strings.TrimSpace(*in.ProfilePicture)
	}
	if in.Preferences != nil {
		if err := validatePreferences(*in.Preferences); err != nil {
			return nil, err
		}
	}

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if len(updates) > 0 {
			updates["updated_at"] = time.Now().UTC()
			if err := us.userRepo.UpdateFields(dbc, userID, updates); err != nil {
				return err
			}
		}
		if in.Preferences != nil {
			return us.savePreferences(dbc, userID, *in.Preferences)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return us.GetProfile(ctx)
}

func (us *userService) Onboard(ctx context.Context, in OnboardingInput) (*ProfileView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateGender(in.Gender); err != nil {
		return nil, err
	}
	if err := validatePreferences(in.Preferences); err != nil {
		return nil, err
	}

	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := us.userRepo.UpdateFields(dbc, userID, map[string]any{
			"gender":     user.NormalizeGender(in.Gender),
			"updated_at": time.Now().UTC(),
		}); err != nil {
			return err
		}
		return us.savePreferences(dbc, userID, in.Preferences)
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding: %w", err)
	}
	us.log.Info("User onboarded", "user_id", userID)
	return us.GetProfile(ctx)
}

// savePreferences writes explicit preferences, creating the profile row
// when the user has none yet.
func (us *userService) savePreferences(dbc dbctx.Context, userID uuid.UUID, prefs types.Preferences) error {
	profile, err := us.profileRepo.GetByUserID(dbc, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		if _, err := us.profileRepo.Create(dbc, []*types.UserProfile{user.NewUserProfile(userID)}); err != nil {
			return err
		}
	}
	return us.profileRepo.UpdatePreferences(dbc, userID, prefs)
}

func (us *userService) GetAccount(ctx context.Context) (*AccountView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	var (
		u         *types.User
		profile   *types.UserProfile
		cartCount int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		u, err = us.userRepo.GetByID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = us.profileRepo.GetByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	g.Go(func() error {
		var err error
		cartCount, err = us.cartRepo.CountByUserID(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if u == nil {
		return nil, apierr.Unauthorized("User not found")
	}
	view := &AccountView{User: u, CartCount: cartCount}
	if profile != nil {
		view.LikedCount = len(profile.LikedItems)
		view.DislikedCount = len(profile.DislikedItems)
	}
	return view, nil
}

func (us *userService) UpdateAccount(ctx context.Context, in AccountUpdate) (*AccountView, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	u, err := us.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.Unauthorized("User not found")
	}

	updates := map[string]any{}
	var username, email string
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		if username != u.Username {
			updates["username"] = username
		} else {
			username = ""
		}
	}
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		if email != u.Email {
			updates["email"] = email
		} else {
			email = ""
		}
	}
	if in.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(in.CurrentPassword)); err != nil {
			return nil, apierr.Unauthorized("Current password is incorrect")
		}
		if err := validatePassword(in.NewPassword); err != nil {
			return nil, err
		}
		if in.ConfirmPassword != in.NewPassword {
			return nil, apierr.Validation("invalid_password", "Passwords do not match.")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), us.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password"] = string(hashed)
	}

	if username != "" || email != "" {
		taken, err := us.userRepo.FindConflicting(dbc, username, email, userID)
		if err != nil {
			return nil, fmt.Errorf("check existing users: %w", err)
		}
		if len(taken) > 0 {
			return nil, apierr.Conflict("user_exists", "Username or email already in use")
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := us.userRepo.UpdateFields(dbc, userID, updates); err != nil {
			if domainagg.IsCode(aggregates.MapError("User.UpdateAccount", err), domainagg.CodeConflict) {
				return nil, apierr.Conflict("user_exists", "Username or email already in use")
			}
			return nil, fmt.Errorf("update account: %w", err)
		}
	}
	return us.GetAccount(ctx)
}

// ListLikedItems pages through the liked set, most recently liked first.
func (us *userService) ListLikedItems(ctx context.Context, page, limit int) (*LikedItemsPage, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLikedPageSize
	}
	limit = min(limit, MaxLikedPageSize)

	profile, err := us.profileRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	out := &LikedItemsPage{Items: []*types.Item{}, Page: page, Limit: limit}
	if profile == nil || len(profile.LikedItems) == 0 {
		return out, nil
	}

	ids := slices.Clone([]uuid.UUID(profile.LikedItems))
	slices.Reverse(ids)
	out.Total = len(ids)
	out.TotalPages = (out.Total + limit - 1) / limit

	start := (page - 1) * limit
	if start >= len(ids) {
		return out, nil
	}
	end := min(start+limit, len(ids))
	items, err := us.itemRepo.GetByIDs(dbctx.Context{Ctx: ctx}, ids[start:end])
	if err != nil {
		return nil, fmt.Errorf("load liked items: %w", err)
	}
	out.Items = items
	return out, nil
}

// DeleteLikedItems removes items from the liked set and reverses their
// tally contribution.
func (us *userService) DeleteLikedItems(ctx context.Context, itemIDs []uuid.UUID) (domainagg.RemoveLikedResult, error) {
	userID, err := requestUserID(ctx)
	if err != nil {
		return domainagg.RemoveLikedResult{}, err
	}
	if len(itemIDs) == 0 {
		return domainagg.RemoveLikedResult{}, apierr.Validation("invalid_item_ids", "itemIds must be a non-empty array.")
	}
	res, err := us.swipes.RemoveLiked(ctx, domainagg.RemoveLikedInput{UserID: userID, ItemIDs: itemIDs})
	if err != nil {
		return res, err
	}
	us.log.Debug("Removed liked items", "user_id", userID, "removed", len(res.Removed))
	return res, nil
}

func profileView(u *types.User, profile *types.UserProfile) *ProfileView {
	return &ProfileView{
		User:          u,
		Preferences:   profile.Preferences.Data(),
		LikedCount:    len(profile.LikedItems),
		DislikedCount: len(profile.DislikedItems),
	}
}

func parseDateOfBirth(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var (
		dob time.Time
		err error
	)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if dob, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return nil, apierr.Validation("invalid_date_of_birth", "Date of birth must be YYYY-MM-DD.")
	}
	if dob.After(time.Now()) {
		return nil, apierr.Validation("invalid_date_of_birth", "Date of birth must be in the past.")
	}
	dob = dob.UTC()
	return &dob, nil
}
