package data

import (
	"context"
	"fmt"

	"github.com/ncobase/pagekit/logging/logger"
)

// Conn is an open connection together with the driver that owns it.
type Conn struct {
	Driver DatabaseDriver
	Raw    any
}

// Open connects to the database driver registered under name.
func Open(ctx context.Context, name string, cfg any) (*Conn, error) {
	driver, err := GetDatabaseDriver(name)
	if err != nil {
		return nil, err
	}
	raw, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "data: connected %s", name)
	return &Conn{Driver: driver, Raw: raw}, nil
}

// Ping checks the connection.
func (c *Conn) Ping(ctx context.Context) error {
	return c.Driver.Ping(ctx, c.Raw)
}

// Close releases the connection.
func (c *Conn) Close() error {
	if c == nil || c.Raw == nil {
		return nil
	}
	if err := c.Driver.Close(c.Raw); err != nil {
		return fmt.Errorf("data: close %s: %w", c.Driver.Name(), err)
	}
	return nil
}

// CacheConn is an open cache connection together with its driver.
type CacheConn struct {
	Driver CacheDriver
	Raw    any
}

// OpenCache connects to the cache driver registered under name.
func OpenCache(ctx context.Context, name string, cfg any) (*CacheConn, error) {
	driver, err := GetCacheDriver(name)
	if err != nil {
		return nil, err
	}
	raw, err := driver.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "data: connected cache %s", name)
	return &CacheConn{Driver: driver, Raw: raw}, nil
}

// Close releases the cache connection.
func (c *CacheConn) Close() error {
	if c == nil || c.Raw == nil {
		return nil
	}
	return c.Driver.Close(c.Raw)
}
