package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ncobase/pagekit/data/config"
)

// PoolDefaults are applied when a DBNode leaves a pool setting at zero.
type PoolDefaults struct {
	MaxIdleConn int
	MaxOpenConn int
}

// OpenSQL opens and pings a database/sql pool for a driver package. name is
// the data driver name used in errors, sqlDriver the registered database/sql
// driver.
func OpenSQL(ctx context.Context, name, sqlDriver string, cfg any, defaults PoolDefaults) (*sql.DB, error) {
	node, ok := cfg.(*config.DBNode)
	if !ok {
		return nil, fmt.Errorf("%s: invalid configuration type, expected *config.DBNode", name)
	}
	if node.Source == "" {
		return nil, fmt.Errorf("%s: connection source is empty", name)
	}

	db, err := sql.Open(sqlDriver, node.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open connection: %w", name, err)
	}

	if n := firstPositive(node.MaxIdleConn, defaults.MaxIdleConn); n > 0 {
		db.SetMaxIdleConns(n)
	}
	if n := firstPositive(node.MaxOpenConn, defaults.MaxOpenConn); n > 0 {
		db.SetMaxOpenConns(n)
	}
	if node.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(node.ConnMaxLifeTime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", name, err)
	}
	return db, nil
}

// CloseSQL closes a pool returned by OpenSQL.
func CloseSQL(name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("%s: failed to close connection: %w", name, err)
	}
	return nil
}

// PingSQL pings a pool returned by OpenSQL.
func PingSQL(ctx context.Context, name string, conn any) error {
	db, ok := conn.(*sql.DB)
	if !ok {
		return fmt.Errorf("%s: invalid connection type, expected *sql.DB", name)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping failed: %w", name, err)
	}
	return nil
}

func firstPositive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
