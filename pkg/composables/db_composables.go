package composables

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekklesia-dev/ekklesia-sdk/pkg/configuration"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/constants"
	"github.com/ekklesia-dev/ekklesia-sdk/pkg/repo"
)

var (
	ErrNoTx   = errors.New("no transaction found in context")
	ErrNoPool = errors.New("no database pool found in context")
)

// DefaultTxTimeout bounds every logical operation when TX_TIMEOUT is
// not configured. Multi-step mutations (promotion, cascade, ledger
// create, reconciliation) must finish within it.
const DefaultTxTimeout = 30 * time.Second

func txTimeout() time.Duration {
	if d := configuration.Use().TxTimeout; d > 0 {
		return d
	}
	return DefaultTxTimeout
}

func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, constants.TxKey, tx)
}

func UseTx(ctx context.Context) (repo.Tx, error) {
	tx := ctx.Value(constants.TxKey)
	if tx == nil {
		return UsePool(ctx)
	}
	return tx.(repo.Tx), nil
}

func WithPool(ctx context.Context, pool *pgxpool.Pool) context.Context {
	return context.WithValue(ctx, constants.PoolKey, pool)
}

func UsePool(ctx context.Context) (*pgxpool.Pool, error) {
	pool := ctx.Value(constants.PoolKey)
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool.(*pgxpool.Pool), nil
}

// InTx runs fn inside a serializable transaction bounded by the
// configured TX_TIMEOUT. Nested calls join the transaction already in
// context instead of opening a second one, so a service can call another
// service without breaking the single-transaction-per-operation
// discipline.
func InTx(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(constants.TxKey) != nil {
		return fn(ctx)
	}

	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout())
	defer cancel()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			return errors.Join(err, rErr)
		}
		return err
	}
	return tx.Commit(ctx)
}
