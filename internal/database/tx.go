package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxFunc is one unit of work executed inside a transaction.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// InTx acquires a pooled connection, runs fn inside a read-committed
// transaction, and commits when fn returns nil.
//
// Waiting for a connection is bounded by the pool's connect timeout;
// running out of it yields an error wrapping ErrPoolTimeout. Once the
// transaction has begun it no longer observes ctx cancellation, so it
// always ends in a commit or rollback. The connection is released on
// every path.
func (db *Database) InTx(ctx context.Context, fn TxFunc) error {
	acquireCtx, cancel := context.WithTimeout(ctx, db.connectTimeout)
	conn, err := db.Pool.Acquire(acquireCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %w", ErrPoolTimeout, db.connectTimeout, err)
		}
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	detached := context.WithoutCancel(ctx)
	return pgx.BeginTxFunc(detached, conn, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(detached, tx)
	})
}
