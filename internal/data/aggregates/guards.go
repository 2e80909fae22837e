package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

// CASGuard writes an aggregate row only if its version column still holds
// the value the write was computed from.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) conn(dbc dbctx.Context) (*gorm.DB, error) {
	switch {
	case dbc.Tx != nil:
		return dbc.Tx.WithContext(dbc.Ctx), nil
	case g.db != nil:
		return g.db.WithContext(dbc.Ctx), nil
	default:
		return nil, ValidationError("missing db transaction context")
	}
}

// UpdateByVersion applies updates to the contract's table where id matches
// and the version column equals expected, setting it to expected+1. The
// bool reports whether the row matched.
func (g CASGuard) UpdateByVersion(dbc dbctx.Context, c domainagg.Contract, id uuid.UUID, expected int, updates map[string]any) (bool, error) {
	db, err := g.conn(dbc)
	if err != nil {
		return false, err
	}
	table, column := strings.TrimSpace(c.Table), strings.TrimSpace(c.VersionColumn)
	if table == "" || column == "" {
		return false, ValidationError("contract " + c.Name + " has no table or version column")
	}
	if id == uuid.Nil || expected < 0 {
		return false, ValidationError("id and a non-negative expected version are required")
	}

	values := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	values[column] = expected + 1
	res := db.Table(table).
		Where("id = ? AND "+column+" = ?", id, expected).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess turns an unmatched compare-and-set into a conflict.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
