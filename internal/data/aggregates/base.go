package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/styleswipe-backend/internal/domain/aggregates"
	"github.com/yungbote/styleswipe-backend/internal/platform/dbctx"
	"github.com/yungbote/styleswipe-backend/internal/platform/logger"
)

type BaseDeps struct {
	DB       *gorm.DB
	Log      *logger.Logger
	Runner   TxRunner
	Hooks    Hooks
	CASGuard CASGuard
	Locker   Locker
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.CASGuard.db == nil {
		d.CASGuard = NewCASGuard(d.DB)
	}
	if d.Locker == nil {
		d.Locker = NewKeyedMutex()
	}
	return d
}

func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = strings.TrimSpace(op)
	if op == "" {
		op = "aggregate.write"
	}
	err := deps.Runner.InTx(ctx, fn)
	mapped := MapError(op, err)
	observe(deps, op, mapped, time.Since(start))
	return mapped
}

// executeLockedWrite holds deps.Locker on key for the whole transaction.
func executeLockedWrite(ctx context.Context, deps BaseDeps, op, key string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	start := time.Now()
	release, err := deps.Locker.Lock(ctx, key)
	if err != nil {
		mapped := MapError(op, RetryableError("acquire lock "+key+": "+err.Error()))
		observe(deps, op, mapped, time.Since(start))
		return mapped
	}
	defer release()
	return executeWrite(ctx, deps, op, fn)
}

func observe(deps BaseDeps, op string, err error, dur time.Duration) {
	status := aggregateErrorStatus(err)
	switch domainagg.ErrorCode(status) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeRetryable:
		deps.Hooks.IncRetry(op)
	}
	deps.Hooks.ObserveOperation(op, status, dur)
}

// aggregateErrorStatus is the metrics status label for a write outcome.
func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	if code := domainagg.CodeOf(MapError("aggregate.status", err)); code != "" {
		return string(code)
	}
	return "failure"
}
