package aggregates

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
)

// TxRunner opens the transaction an aggregate write runs in. Tests swap it
// for one that injects begin or commit failures.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

var errNoDB = errors.New("aggregate has no database handle")

type gormRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return gormRunner{db: db}
}

func (r gormRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.db == nil {
		return errNoDB
	}
	// Lock waits can exhaust the deadline before the tx begins.
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if fn == nil {
			return nil
		}
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
