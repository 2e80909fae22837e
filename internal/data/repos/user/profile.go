package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

// UserProfileRepo covers profile reads and the writes that do not touch
// swipe state. Liked/disliked sets and tallies are written only through the
// swipe aggregate.
type UserProfileRepo interface {
	Create(dbc dbctx.Context, profiles []*types.UserProfile) ([]*types.UserProfile, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdatePreferences(dbc dbctx.Context, userID uuid.UUID, prefs types.Preferences) error
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	repoLog := baseLog.With("repo", "UserProfileRepo")
	return &userProfileRepo{db: db, log: repoLog}
}

func (r *userProfileRepo) Create(dbc dbctx.Context, profiles []*types.UserProfile) ([]*types.UserProfile, error) {
	if len(profiles) == 0 {
		return []*types.UserProfile{}, nil
	}
	if err := dbc.Or(r.db).WithContext(dbc.Ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetByUserID returns nil, nil when no profile exists.
func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var p types.UserProfile
	err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userProfileRepo) UpdatePreferences(dbc dbctx.Context, userID uuid.UUID, prefs types.Preferences) error {
	return dbc.Or(r.db).WithContext(dbc.Ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", userID).
		Update("preferences", datatypes.NewJSONType(prefs)).Error
}
