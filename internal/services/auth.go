package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/data/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/data/repos"
	types "github.com/yungbote/styleswipe-backend/internal/domain"
	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/domain/user"
	"github.com/yungbote/styleswipe-backend/internal/observability"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/ctxutil"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

const (
	DefaultAccessTTL         = 15 * time.Minute
	DefaultRefreshTTL        = 30 * 24 * time.Hour
	DefaultInactivityTimeout = 14 * 24 * time.Hour
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type AuthConfig struct {
	JWTSecretKey      string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	InactivityTimeout time.Duration
	BcryptCost        int
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, identifier, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	metrics       *observability.Metrics
	userRepo      repos.UserRepo
	profileRepo   repos.UserProfileRepo
	userTokenRepo repos.UserTokenRepo
	cfg           AuthConfig
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	metrics *observability.Metrics,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	userTokenRepo repos.UserTokenRepo,
	cfg AuthConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = DefaultInactivityTimeout
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		db:            db,
		log:           serviceLog,
		metrics:       metrics,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		userTokenRepo: userTokenRepo,
		cfg:           cfg,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateRegistration(in); err != nil {
		as.metrics.IncAuthEvent("register", "invalid")
		return nil, err
	}

	existing, err := as.userRepo.FindConflicting(dbctx.Context{Ctx: ctx}, in.Username, in.Email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check existing users: %w", err)
	}
	if len(existing) > 0 {
		as.metrics.IncAuthEvent("register", "conflict")
		return nil, apierr.Conflict("user_exists", "Username or email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), as.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &types.User{
		ID:         uuid.New(),
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(hashed),
		LastActive: time.Now().UTC(),
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.userRepo.Create(dbc, []*types.User{u}); err != nil {
			return err
		}
		if _, err := as.profileRepo.Create(dbc, []*types.UserProfile{user.NewUserProfile(u.ID)}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if domainagg.IsCode(aggregates.MapError("Auth.Register", err), domainagg.CodeConflict) {
			as.metrics.IncAuthEvent("register", "conflict")
			return nil, apierr.Conflict("user_exists", "Username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	as.metrics.IncAuthEvent("register", "ok")
	as.log.Info("User registered", "user_id", u.ID)
	return u, nil
}

func (as *authService) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		as.metrics.IncAuthEvent("login", "invalid")
		return TokenPair{}, apierr.Validation("invalid_credentials", "Identifier and password are required.")
	}

	u, err := as.userRepo.GetByIdentifier(dbctx.Context{Ctx: ctx}, identifier)
	if err != nil {
		return TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		as.metrics.IncAuthEvent("login", "unknown_user")
		return TokenPair{}, apierr.Unauthorized("No user found with this username or email")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		as.metrics.IncAuthEvent("login", "bad_password")
		return TokenPair{}, apierr.Unauthorized("Password is incorrect")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		// One live session per user; a new login replaces the previous one.
		if err := as.userTokenRepo.FullDeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
			return fmt.Errorf("clear previous session: %w", err)
		}
		var err error
		pair, err = as.issueTokens(dbc, u.ID)
		if err != nil {
			return err
		}
		return as.userRepo.TouchLastActive(dbc, u.ID, time.Now())
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("login: %w", err)
	}
	as.metrics.IncAuthEvent("login", "ok")
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, apierr.Unauthorized("No refresh token in request")
	}
	dbc := dbctx.Context{Ctx: ctx}

	tok, err := as.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	if tok == nil {
		as.metrics.IncAuthEvent("refresh", "invalid")
		return TokenPair{}, apierr.Unauthorized("Invalid or expired refresh token")
	}
	if !tok.ExpiresAt.IsZero() && tok.ExpiresAt.Before(time.Now()) {
		as.dropToken(dbc, tok)
		as.metrics.IncAuthEvent("refresh", "expired")
		return TokenPair{}, apierr.Unauthorized("Invalid or expired refresh token")
	}

	u, err := as.userRepo.GetByID(dbc, tok.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		as.dropToken(dbc, tok)
		return TokenPair{}, apierr.Unauthorized("No user with this refresh token found")
	}
	if u.LastActive.Before(time.Now().Add(-as.cfg.InactivityTimeout)) {
		as.dropToken(dbc, tok)
		as.metrics.IncAuthEvent("refresh", "inactive")
		return TokenPair{}, apierr.Unauthorized("Session timed out due to inactivity")
	}

	var pair TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := as.userTokenRepo.FullDeleteByIDs(txc, []uuid.UUID{tok.ID}); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		var err error
		pair, err = as.issueTokens(txc, u.ID)
		if err != nil {
			return err
		}
		return as.userRepo.TouchLastActive(txc, u.ID, time.Now())
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	as.metrics.IncAuthEvent("refresh", "ok")
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return apierr.Unauthorized("No refresh token in request")
	}
	dbc := dbctx.Context{Ctx: ctx}
	tok, err := as.userTokenRepo.GetByRefreshToken(dbc, refreshToken)
	if err != nil {
		return fmt.Errorf("lookup refresh token: %w", err)
	}
	if tok == nil {
		return apierr.Unauthorized("No user with this refresh token found")
	}
	if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{tok.ID}); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	as.metrics.IncAuthEvent("logout", "ok")
	return nil
}

// SetContextFromToken validates an access token, checks its session is still
// live and attaches the caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("Access token is missing")
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		as.log.Debug("Rejected access token", "error", err)
		return ctx, apierr.Unauthorized("Invalid or expired access token")
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthorized("Invalid or expired access token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("Invalid user id in token")
	}

	dbc := dbctx.Context{Ctx: ctx}
	tok, err := as.userTokenRepo.GetByAccessToken(dbc, tokenString)
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, fmt.Errorf("load session: %w", err)
	}
	if tok == nil || tok.UserID != userID {
		return ctx, apierr.Unauthorized("Session is no longer active")
	}
	if err := as.userRepo.TouchLastActive(dbc, userID, time.Now()); err != nil {
		as.log.Warn("Failed to touch last_active", "user_id", userID, "error", err)
	}

	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	})
	return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.cfg.AccessTTL
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (TokenPair, error) {
	accessToken, err := as.generateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(as.cfg.RefreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return TokenPair{}, fmt.Errorf("store session: %w", err)
	}
	return TokenPair{
		AccessToken:  row.AccessToken,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int(as.cfg.AccessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.JWTSecretKey))
}

func (as *authService) dropToken(dbc dbctx.Context, tok *types.UserToken) {
	if err := as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{tok.ID}); err != nil && !errors.Is(err, context.Canceled) {
		as.log.Warn("Failed to drop session", "user_id", tok.UserID, "error", err)
	}
}
