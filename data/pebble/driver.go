// Package pebble stores id-keyed records in a Pebble database and implements
// paging.Query over them.
//
// Records live under prefix + big-endian id, so key order is id order and
// every page is a bounded range scan:
//
//	import _ "github.com/ncobase/pagekit/data/pebble"
//
//	conn, err := data.Open(ctx, "pebble", &config.Pebble{Path: "/var/lib/pagekit"})
//	store := pebble.NewStore(conn.Raw.(*pebble.DB), "msg:")
//	q := pebble.NewQuery(store, decodeMessage)
package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/ncobase/pagekit/data"
	"github.com/ncobase/pagekit/data/config"
)

// driver implements data.DatabaseDriver for Pebble.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "pebble"
}

// Connect opens the database described by a *config.Pebble. InMemory
// databases live on vfs.NewMem and vanish on Close.
func (d *driver) Connect(_ context.Context, cfg any) (any, error) {
	pcfg, ok := cfg.(*config.Pebble)
	if !ok || pcfg == nil {
		return nil, fmt.Errorf("pebble: invalid configuration type, expected *config.Pebble")
	}

	opts := &pebble.Options{}
	path := pcfg.Path
	if pcfg.InMemory {
		opts.FS = vfs.NewMem()
		if path == "" {
			path = "pagekit"
		}
	}
	if path == "" {
		return nil, errors.New("pebble: path is empty")
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble: failed to open %s: %w", path, err)
	}
	return db, nil
}

// Close flushes and closes the database.
func (d *driver) Close(conn any) error {
	db, ok := conn.(*pebble.DB)
	if !ok {
		return fmt.Errorf("pebble: invalid connection type, expected *pebble.DB")
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("pebble: failed to close: %w", err)
	}
	return nil
}

// Ping reads a key that never exists.
func (d *driver) Ping(_ context.Context, conn any) error {
	db, ok := conn.(*pebble.DB)
	if !ok {
		return fmt.Errorf("pebble: invalid connection type, expected *pebble.DB")
	}
	_, closer, err := db.Get([]byte{0})
	if err == nil {
		return closer.Close()
	}
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("pebble: ping failed: %w", err)
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
