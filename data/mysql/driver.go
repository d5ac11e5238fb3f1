// Package mysql registers the "mysql" database driver.
//
// It uses github.com/go-sql-driver/mysql under database/sql:
//
//	import _ "github.com/ncobase/pagekit/data/mysql"
//
// Page queries against the returned *sql.DB are built with sqlquery.MySQL.
// DSNs should set parseTime=true when rows carry timestamps:
//
//	user:password@tcp(localhost:3306)/dbname?parseTime=true&charset=utf8mb4
package mysql

import (
	"context"

	"github.com/ncobase/pagekit/data"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// driver implements data.DatabaseDriver for MySQL.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "mysql"
}

// Connect opens a *sql.DB from a *config.DBNode and pings it.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	return data.OpenSQL(ctx, d.Name(), "mysql", cfg, data.PoolDefaults{})
}

// Close terminates the MySQL connection and releases resources.
func (d *driver) Close(conn any) error {
	return data.CloseSQL(d.Name(), conn)
}

// Ping verifies the MySQL connection is alive and functional.
func (d *driver) Ping(ctx context.Context, conn any) error {
	return data.PingSQL(ctx, d.Name(), conn)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
