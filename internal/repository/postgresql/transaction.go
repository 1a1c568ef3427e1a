package postgresql

import (
	"context"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithTx returns a context whose repository reads run inside tx
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional reads
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
