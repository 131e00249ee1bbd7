// Package store provides focused, single-concern data access stores for
// the geographic-statistics catalog.
//
// Each store owns one domain (datasets, data sources, the geographic
// registry, measurements) and embeds shared helpers (Pool, logger) via the
// Base struct. Stores never import each other; the upload pipeline gets
// its transactional scope from IngestStore.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/openatlas/geocatalog/internal/dbpool"
)

// querier is the query capability shared by dbpool.Pool and pgx.Tx, so
// read helpers can serve both pooled reads and the upload transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const defaultQueryTimeout = 30 * time.Second

// uploadTimeout bounds a whole upload transaction, which spans several
// round trips plus the bulk insert.
const uploadTimeout = 2 * time.Minute

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
