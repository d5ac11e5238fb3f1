package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ncobase/pagekit/config"
	"github.com/ncobase/pagekit/data/breaker"
	"github.com/ncobase/pagekit/data/connection"
	"github.com/ncobase/pagekit/data/mongodb"
	"github.com/ncobase/pagekit/data/pebble"
	"github.com/ncobase/pagekit/data/redis"
	"github.com/ncobase/pagekit/data/sqlquery"
	"github.com/ncobase/pagekit/logging/logger"
	"github.com/ncobase/pagekit/paging"
	"go.mongodb.org/mongo-driver/bson"

	_ "github.com/ncobase/pagekit/data/all"
)

const defaultTable = "records"

// Record is the row shape the CLI pages through.
type Record struct {
	ID   int64  `json:"id" bson:"_id"`
	Body string `json:"body" bson:"body"`
}

func recordID(r Record) int64 { return r.ID }

// collection is an opened store ready to be paged.
type collection struct {
	name   string
	query  paging.Query[Record]
	counts paging.CountCache
	ping   func(ctx context.Context) error
	close  func()
}

// openCollection connects to the configured store, seeding it with n
// generated records when n > 0. Without a configured store the records live
// in memory.
func openCollection(ctx context.Context, cfg *config.Config, n int) (*collection, error) {
	conns, err := connection.New(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}
	c := &collection{
		name: conns.StoreName,
		ping: conns.Ping,
		close: func() {
			for _, err := range conns.Close() {
				logger.Warnf(ctx, "%v", err)
			}
		},
	}

	var records []Record
	if n > 0 {
		if records, err = generate(cfg.SortID, n); err != nil {
			c.close()
			return nil, err
		}
	}

	switch conns.StoreName {
	case "":
		c.name = "memory"
		c.query = paging.NewSliceQuery(records, recordID)
	case "mysql", "postgres", "sqlite":
		c.query, err = openSQL(ctx, conns.DB(), conns.StoreName, cfg, records)
	case "mongodb":
		c.query, err = openMongo(ctx, conns, cfg, records)
	case "pebble":
		c.query, err = openPebble(conns, cfg, records)
	default:
		err = fmt.Errorf("unsupported store %q", conns.StoreName)
	}
	if err != nil {
		c.close()
		return nil, err
	}

	if c.name != "memory" {
		c.query = breaker.Wrap(c.query, breaker.New(c.name, breaker.DefaultSettings()))
	}
	if rc := conns.Redis(); rc != nil {
		c.counts = redis.NewCountCache(rc, cfg.Data.Redis.KeyPrefix, cfg.Data.Redis.CountTTL)
	}
	return c, nil
}

// generate returns n records with identifiers from the configured node.
func generate(sid *config.SortID, n int) ([]Record, error) {
	gen, err := sid.Generator()
	if err != nil {
		return nil, err
	}
	out := make([]Record, n)
	for i := range out {
		id, err := gen.Next()
		if err != nil {
			return nil, err
		}
		out[i] = Record{ID: id, Body: fmt.Sprintf("record %d", i+1)}
	}
	return out, nil
}

func openSQL(ctx context.Context, db *sql.DB, driver string, cfg *config.Config, seed []Record) (paging.Query[Record], error) {
	dialect, err := sqlquery.DialectFor(driver)
	if err != nil {
		return nil, err
	}
	table := cfg.Data.Database.Table
	if table == "" {
		table = defaultTable
	}
	idColumn := cfg.Data.Database.IDColumn

	if len(seed) > 0 {
		if err := seedSQL(ctx, db, dialect, table, idColumn, seed); err != nil {
			return nil, err
		}
	}

	return sqlquery.New(db, dialect, table, idColumn, []string{idColumn, "body"},
		func(rows *sql.Rows) (Record, error) {
			var r Record
			err := rows.Scan(&r.ID, &r.Body)
			return r, err
		}), nil
}

func seedSQL(ctx context.Context, db *sql.DB, d sqlquery.Dialect, table, idColumn string, seed []Record) error {
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s BIGINT PRIMARY KEY, body TEXT NOT NULL)",
		d.Quote(table), d.Quote(idColumn))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("seed: create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	insert := fmt.Sprintf("INSERT INTO %s (%s, body) VALUES (%s, %s)",
		d.Quote(table), d.Quote(idColumn), d.Placeholder(1), d.Placeholder(2))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("seed: prepare: %w", err)
	}
	defer stmt.Close()
	for _, r := range seed {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Body); err != nil {
			return fmt.Errorf("seed: insert %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func openMongo(ctx context.Context, conns *connection.Connections, cfg *config.Config, seed []Record) (paging.Query[Record], error) {
	mc := cfg.Data.MongoDB
	if mc.Database == "" {
		return nil, fmt.Errorf("mongodb: database is empty")
	}
	name := mc.Collection
	if name == "" {
		name = defaultTable
	}
	coll := conns.Mongo().Database(mc.Database).Collection(name)

	if len(seed) > 0 {
		docs := make([]any, len(seed))
		for i, r := range seed {
			docs[i] = r
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return nil, fmt.Errorf("seed: insert: %w", err)
		}
	}
	return mongodb.NewQuery[Record](coll, mc.IDField, bson.D{}), nil
}

func openPebble(conns *connection.Connections, cfg *config.Config, seed []Record) (paging.Query[Record], error) {
	store := pebble.NewStore(conns.Pebble(), cfg.Data.Pebble.Prefix)

	if len(seed) > 0 {
		values := make(map[int64][]byte, len(seed))
		for _, r := range seed {
			b, err := json.Marshal(r)
			if err != nil {
				return nil, err
			}
			values[r.ID] = b
		}
		if err := store.PutBatch(values); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	return pebble.NewQuery[Record](store, func(id int64, value []byte) (Record, error) {
		var r Record
		if err := json.Unmarshal(value, &r); err != nil {
			return Record{}, fmt.Errorf("record %d: %w", id, err)
		}
		r.ID = id
		return r, nil
	}), nil
}

// idValidator rejects cursor ids the configured layout cannot produce.
func idValidator(sid *config.SortID) (paging.IDValidator, error) {
	codec, err := sid.Codec()
	if err != nil {
		return nil, err
	}
	return codec.Validate, nil
}
