// Package mongodb registers the "mongodb" database driver and implements
// paging.Query over a MongoDB collection.
//
//	import _ "github.com/ncobase/pagekit/data/mongodb"
//
//	conn, err := data.Open(ctx, "mongodb", &config.MongoDB{URI: "mongodb://localhost:27017"})
//	client := conn.Raw.(*mongo.Client)
//	q := mongodb.NewQuery[Message](client.Database("app").Collection("messages"), "_id", nil)
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/pagekit/data"
	"github.com/ncobase/pagekit/data/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// driver implements data.DatabaseDriver for MongoDB.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() string {
	return "mongodb"
}

// Connect returns a *mongo.Client for a *config.MongoDB, verified with a
// ping against the primary.
func (d *driver) Connect(ctx context.Context, cfg any) (any, error) {
	mongoCfg, ok := cfg.(*config.MongoDB)
	if !ok || mongoCfg == nil {
		return nil, fmt.Errorf("mongodb: invalid configuration type, expected *config.MongoDB")
	}
	if mongoCfg.URI == "" {
		return nil, errors.New("mongodb: URI is empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoCfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: failed to ping: %w", err)
	}
	return client, nil
}

// Close disconnects the client.
func (d *driver) Close(conn any) error {
	client, ok := conn.(*mongo.Client)
	if !ok {
		return fmt.Errorf("mongodb: invalid connection type, expected *mongo.Client")
	}
	if err := client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("mongodb: failed to disconnect: %w", err)
	}
	return nil
}

// Ping verifies the MongoDB connection is alive and functional.
func (d *driver) Ping(ctx context.Context, conn any) error {
	client, ok := conn.(*mongo.Client)
	if !ok {
		return fmt.Errorf("mongodb: invalid connection type, expected *mongo.Client")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}
	return nil
}

func init() {
	data.RegisterDatabaseDriver(&driver{})
}
