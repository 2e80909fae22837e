package cart

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type CartItemRepo interface {
	Create(dbc dbctx.Context, lines []*types.CartItem) ([]*types.CartItem, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.CartItem, error)
	CountByUserID(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	GetForUser(dbc dbctx.Context, userID, cartItemID uuid.UUID) (*types.CartItem, error)
	GetLine(dbc dbctx.Context, userID, itemID uuid.UUID, size, color string) (*types.CartItem, error)
	UpdateQuantity(dbc dbctx.Context, cartItemID uuid.UUID, quantity int) error
	DeleteForUser(dbc dbctx.Context, userID, cartItemID uuid.UUID) (bool, error)
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	repoLog := baseLog.With("repo", "CartItemRepo")
	return &cartItemRepo{db: db, log: repoLog}
}

func (r *cartItemRepo) Create(dbc dbctx.Context, lines []*types.CartItem) ([]*types.CartItem, error) {
	if len(lines) == 0 {
		return []*types.CartItem{}, nil
	}
	if err := dbc.Or(r.db).WithContext(dbc.Ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ListByUserID returns the cart with items preloaded, oldest line first.
func (r *cartItemRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.CartItem, error) {
	results := []*types.CartItem{}
	if userID == uuid.Nil {
		return results, nil
	}
	if err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("date_added ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cartItemRepo) CountByUserID(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Model(&types.CartItem{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *cartItemRepo) GetForUser(dbc dbctx.Context, userID, cartItemID uuid.UUID) (*types.CartItem, error) {
	return r.first(dbc, "id = ? AND user_id = ?", cartItemID, userID)
}

func (r *cartItemRepo) GetLine(dbc dbctx.Context, userID, itemID uuid.UUID, size, color string) (*types.CartItem, error) {
	return r.first(dbc, "user_id = ? AND item_id = ? AND size = ? AND color = ?", userID, itemID, size, color)
}

func (r *cartItemRepo) first(dbc dbctx.Context, where string, args ...any) (*types.CartItem, error) {
	var line types.CartItem
	err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Preload("Item").
		Where(where, args...).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartItemRepo) UpdateQuantity(dbc dbctx.Context, cartItemID uuid.UUID, quantity int) error {
	return dbc.Or(r.db).WithContext(dbc.Ctx).
		Model(&types.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", quantity).Error
}

func (r *cartItemRepo) DeleteForUser(dbc dbctx.Context, userID, cartItemID uuid.UUID) (bool, error) {
	res := dbc.Or(r.db).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Delete(&types.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
