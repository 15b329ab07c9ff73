package store

import (
	"context"
	"sync/atomic"
)

type txKey struct{}

type txScope struct {
	tx   Tx
	keep atomic.Bool
}

// ContextWithTx scopes tx to ctx. WithTx called with the returned context
// runs inside tx instead of opening its own transaction, leaving Commit and
// Rollback to whoever created tx.
func ContextWithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, &txScope{tx: tx})
}

// TxFromContext returns the transaction scoped to ctx, if any.
func TxFromContext(ctx context.Context) (Tx, bool) {
	s, ok := ctx.Value(txKey{}).(*txScope)
	if !ok {
		return nil, false
	}
	return s.tx, true
}

// KeepChanges asks the owner of the scoped transaction to commit it even
// though the operation reports a failure. It is a no-op without one.
func KeepChanges(ctx context.Context) {
	if s, ok := ctx.Value(txKey{}).(*txScope); ok {
		s.keep.Store(true)
	}
}

// ChangesKept reports whether KeepChanges was called for ctx's transaction.
func ChangesKept(ctx context.Context) bool {
	s, ok := ctx.Value(txKey{}).(*txScope)
	return ok && s.keep.Load()
}
