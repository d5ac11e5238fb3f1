// Package connection opens the collection store and count cache named by a
// data configuration.
package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/ncobase/pagekit/data"
	"github.com/ncobase/pagekit/data/config"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Connections holds the store and cache connections
type Connections struct {
	StoreName string
	Store     *data.Conn
	Cache     *data.CacheConn
	closed    bool
	mu        sync.Mutex
}

// StoreName resolves the store driver: conf.Store, or the database driver
// when a database source is configured.
func StoreName(conf *config.Config) string {
	if conf.Store != "" {
		return conf.Store
	}
	if conf.Database != nil && conf.Database.Master != nil && conf.Database.Master.Source != "" {
		return conf.Database.Master.Driver
	}
	return ""
}

func storeConfig(name string, conf *config.Config) (any, error) {
	switch name {
	case "mysql", "postgres", "sqlite":
		if conf.Database == nil || conf.Database.Master == nil {
			return nil, fmt.Errorf("connection: %s store requires data.database.master", name)
		}
		return conf.Database.Master, nil
	case "mongodb":
		if conf.MongoDB == nil {
			return nil, errors.New("connection: mongodb store requires data.mongodb")
		}
		return conf.MongoDB, nil
	case "pebble":
		if conf.Pebble == nil {
			return nil, errors.New("connection: pebble store requires data.pebble")
		}
		return conf.Pebble, nil
	default:
		return nil, fmt.Errorf("connection: unknown store %q", name)
	}
}

// New opens the configured store and, when an address is set, the redis
// count cache. Drivers must be registered, e.g. by importing data/all.
func New(ctx context.Context, conf *config.Config) (*Connections, error) {
	c := &Connections{StoreName: StoreName(conf)}

	if c.StoreName != "" {
		cfg, err := storeConfig(c.StoreName, conf)
		if err != nil {
			return nil, err
		}
		c.Store, err = data.Open(ctx, c.StoreName, cfg)
		if err != nil {
			return nil, err
		}
	}

	if conf.Redis != nil && conf.Redis.Addr != "" {
		cache, err := data.OpenCache(ctx, "redis", conf.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Cache = cache
	}

	return c, nil
}

// Close closes all connections
func (d *Connections) Close() (errs []error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close error: %w", err))
		}
		d.Cache = nil
	}

	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close error: %w", err))
		}
		d.Store = nil
	}

	d.closed = true
	return errs
}

// Ping checks the store connection
func (d *Connections) Ping(ctx context.Context) error {
	if d.Store == nil {
		return nil
	}
	return d.Store.Ping(ctx)
}

// DB returns the database/sql pool of a SQL store
func (d *Connections) DB() *sql.DB {
	if d.Store == nil {
		return nil
	}
	db, _ := d.Store.Raw.(*sql.DB)
	return db
}

// Mongo returns the client of a mongodb store
func (d *Connections) Mongo() *mongo.Client {
	if d.Store == nil {
		return nil
	}
	client, _ := d.Store.Raw.(*mongo.Client)
	return client
}

// Pebble returns the database of a pebble store
func (d *Connections) Pebble() *pebble.DB {
	if d.Store == nil {
		return nil
	}
	db, _ := d.Store.Raw.(*pebble.DB)
	return db
}

// Redis returns the count cache client
func (d *Connections) Redis() *redis.Client {
	if d.Cache == nil {
		return nil
	}
	client, _ := d.Cache.Raw.(*redis.Client)
	return client
}
