// Package sqlite registers the "sqlite" database driver.
//
// It uses mattn/go-sqlite3 (CGO) under database/sql:
//
//	import _ "github.com/ncobase/pagekit/data/sqlite"
//
// Connections default to one open and two idle connections, which keeps
// ":memory:" databases on a single connection.
//
//	"file:pages.db?cache=shared&mode=rwc"
//	"file::memory:?cache=shared"
package sqlite

import (
	"context"

	"github.com/ncobase/pagekit/data"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// driver implements data.DatabaseDriver for SQLite.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "sqlite"
}

// Connect opens a *sql.DB from a *config.DBNode and pings it.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "sqlite3", cfg, data.PoolDefaults{MaxIdleConn: 2, MaxOpenConn: 1})
}

// Close terminates the SQLite connection and releases resources.
func (d *driver) Close(conn any) error {
	return data.CloseSQL(d.Name(), conn)
}

// Ping verifies the SQLite connection is alive and functional.
func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, d.Name(), conn)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
