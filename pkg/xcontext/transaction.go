package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type txHolder struct {
	tx     *gorm.DB
	nested bool
	done   bool
}

// DB returns the transaction began by WithDBTransaction if one is active,
// otherwise the root database connection.
func DB(ctx context.Context) *gorm.DB {
	if h, ok := ctx.Value(txKey{}).(*txHolder); ok && !h.done {
		return h.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

// WithDBTransaction begins a transaction and makes DB(ctx) return it. If a
// transaction is already active, the returned context joins it: commit and
// rollback become no-ops so the outermost caller decides the outcome.
func WithDBTransaction(ctx context.Context) context.Context {
	if h, ok := ctx.Value(txKey{}).(*txHolder); ok && !h.done {
		return context.WithValue(ctx, txKey{}, &txHolder{tx: h.tx, nested: true})
	}

	return context.WithValue(ctx, txKey{}, &txHolder{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) {
	h, ok := ctx.Value(txKey{}).(*txHolder)
	if !ok || h.done || h.nested {
		return
	}

	h.tx.Commit()
	h.done = true
}

func WithRollbackDBTransaction(ctx context.Context) {
	h, ok := ctx.Value(txKey{}).(*txHolder)
	if !ok || h.done || h.nested {
		return
	}

	h.tx.Rollback()
	h.done = true
}
