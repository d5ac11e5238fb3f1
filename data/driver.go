package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Driver interfaces define contracts for the backends a paginated collection
// can live in. Following the design pattern of database/sql, drivers register
// themselves using init() functions and are looked up at runtime based on
// configuration.

// DatabaseDriver defines the interface for collection stores: relational
// databases, document stores and embedded key-value stores.
type DatabaseDriver interface {
	// Name returns the driver identifier (e.g., "postgres", "mongodb", "pebble")
	Name() string

	// Connect establishes a new connection using the provided configuration.
	// The returned connection should be ready for use or return an error.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close terminates the connection and releases resources.
	Close(conn any) error

	// Ping verifies the connection is alive and functional.
	Ping(ctx context.Context, conn any) error
}

// CacheDriver defines the interface for cache drivers backing total counts.
type CacheDriver interface {
	// Name returns the driver identifier (e.g., "redis")
	Name() string

	// Connect establishes a new cache connection.
	Connect(ctx context.Context, cfg any) (any, error)

	// Close terminates the cache connection.
	Close(conn any) error

	// Ping verifies the cache connection is alive.
	Ping(ctx context.Context, conn any) error
}

// Global driver registries with mutex protection for concurrent access.
var (
	databaseDrivers   = make(map[string]DatabaseDriver)
	databaseDriversMu sync.RWMutex

	cacheDrivers   = make(map[string]CacheDriver)
	cacheDriversMu sync.RWMutex
)

// RegisterDatabaseDriver makes a database driver available by the provided name.
// It is intended to be called from the init function in driver packages.
//
//	func init() {
//	    data.RegisterDatabaseDriver(&driver{})
//	}
//
// If RegisterDatabaseDriver is called twice with the same name or if driver is nil,
// it panics.
func RegisterDatabaseDriver(driver DatabaseDriver) {
	databaseDriversMu.Lock()
	defer databaseDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}
	name := driver.Name()
	if name == "" {
		panic("data: RegisterDatabaseDriver driver name is empty")
	}
	if _, exists := databaseDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDatabaseDriver called twice for driver %s", name))
	}
	databaseDrivers[name] = driver
}

// RegisterCacheDriver makes a cache driver available by the provided name.
// It follows the same pattern as RegisterDatabaseDriver.
func RegisterCacheDriver(driver CacheDriver) {
	cacheDriversMu.Lock()
	defer cacheDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterCacheDriver driver is nil")
	}
	name := driver.Name()
	if name == "" {
		panic("data: RegisterCacheDriver driver name is empty")
	}
	if _, exists := cacheDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterCacheDriver called twice for driver %s", name))
	}
	cacheDrivers[name] = driver
}

// GetDatabaseDriver retrieves a registered database driver by name.
// It returns an error with helpful instructions if the driver is not found.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	driver, ok := databaseDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: database driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"    _ \"github.com/ncobase/pagekit/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, sortedKeys(databaseDrivers),
		)
	}
	return driver, nil
}

// GetCacheDriver retrieves a registered cache driver by name.
func GetCacheDriver(name string) (CacheDriver, error) {
	cacheDriversMu.RLock()
	defer cacheDriversMu.RUnlock()

	driver, ok := cacheDrivers[name]
	if !ok {
		return nil, fmt.Errorf(
			"data: cache driver %q not registered\n\n"+
				"Did you forget to import the driver package?\n"+
				"    _ \"github.com/ncobase/pagekit/data/%s\"\n\n"+
				"Available drivers: %v",
			name, name, sortedKeys(cacheDrivers),
		)
	}
	return driver, nil
}

// ListRegisteredDrivers returns a snapshot of all registered drivers.
func ListRegisteredDrivers() map[string][]string {
	databaseDriversMu.RLock()
	databases := sortedKeys(databaseDrivers)
	databaseDriversMu.RUnlock()

	cacheDriversMu.RLock()
	caches := sortedKeys(cacheDrivers)
	cacheDriversMu.RUnlock()

	return map[string][]string{"database": databases, "cache": caches}
}

// must be called with the registry lock held
func sortedKeys[D any](m map[string]D) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
