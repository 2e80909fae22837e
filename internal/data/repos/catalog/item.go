package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/modules/feed"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type ItemRepo interface {
	Create(dbc dbctx.Context, items []*types.Item) ([]*types.Item, error)
	Upsert(dbc dbctx.Context, items []*types.Item) error
	GetByID(dbc dbctx.Context, itemID uuid.UUID) (*types.Item, error)
	GetByIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.Item, error)
	FindCandidates(dbc dbctx.Context, q feed.CandidateQuery) ([]*types.Item, error)
	CountActive(dbc dbctx.Context) (int64, error)
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	repoLog := baseLog.With("repo", "ItemRepo")
	return &itemRepo{db: db, log: repoLog}
}

func (r *itemRepo) Create(dbc dbctx.Context, items []*types.Item) ([]*types.Item, error) {
	if len(items) == 0 {
		return []*types.Item{}, nil
	}
	if err := dbc.Or(r.db).WithContext(dbc.Ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert inserts items or overwrites every column of existing ids.
func (r *itemRepo) Upsert(dbc dbctx.Context, items []*types.Item) error {
	if len(items) == 0 {
		return nil
	}
	return dbc.Or(r.db).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&items).Error
}

// GetByID returns nil, nil when the item does not exist.
func (r *itemRepo) GetByID(dbc dbctx.Context, itemID uuid.UUID) (*types.Item, error) {
	if itemID == uuid.Nil {
		return nil, nil
	}
	var it types.Item
	err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Where("id = ?", itemID).
		First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// GetByIDs returns the items found, in the order of itemIDs.
func (r *itemRepo) GetByIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.Item, error) {
	results := []*types.Item{}
	if len(itemIDs) == 0 {
		return results, nil
	}
	var found []*types.Item
	if err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Where("id IN ?", itemIDs).
		Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*types.Item, len(found))
	for _, it := range found {
		byID[it.ID] = it
	}
	for _, id := range itemIDs {
		if it, ok := byID[id]; ok {
			results = append(results, it)
		}
	}
	return results, nil
}

func (r *itemRepo) CountActive(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Or(r.db).WithContext(dbc.Ctx).
		Model(&types.Item{}).
		Where("is_active = ?", true).
		Count(&n).Error
	return n, err
}

// FindCandidates runs a feed candidate query, oldest catalog entries first.
func (r *itemRepo) FindCandidates(dbc dbctx.Context, q feed.CandidateQuery) ([]*types.Item, error) {
	results := []*types.Item{}
	if q.PoolSize <= 0 {
		return results, nil
	}
	db := dbc.Or(r.db)
	stmt := applyCandidateQuery(db.WithContext(dbc.Ctx).Model(&types.Item{}), db.Dialector.Name(), q)
	if err := stmt.
		Order("created_at ASC").
		Order("id ASC").
		Limit(q.PoolSize).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
