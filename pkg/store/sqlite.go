package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		collection TEXT NOT NULL,
		key TEXT NOT NULL,
		position INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	);

	CREATE INDEX IF NOT EXISTS idx_records_position ON records(collection, position);
	`

// OpenSQLite opens (or creates) a SQLite database through GORM with its
// logger silenced.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %q", dsn)
	}
	return db, nil
}

// CloseDB closes the connection pool behind db.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLiteStore keeps one collection of JSON-encoded records in the shared
// records table. Seed order is kept in the position column.
type SQLiteStore[V any] struct {
	db         *gorm.DB
	collection string
}

var _ Store[string, int] = (*SQLiteStore[int])(nil)

// NewSQLiteStore makes sure the records table exists and returns a store
// bound to collection.
func NewSQLiteStore[V any](db *gorm.DB, collection string) (*SQLiteStore[V], error) {
	if err := db.Exec(recordsSchema).Error; err != nil {
		return nil, errors.Wrap(err, "create records schema")
	}
	return &SQLiteStore[V]{db: db, collection: collection}, nil
}

// Seed replaces the collection with items, in order.
func (s *SQLiteStore[V]) Seed(ctx context.Context, key func(V) string, items []V) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM records WHERE collection = ?`, s.collection).Error; err != nil {
			return errors.Wrapf(err, "clear collection %s", s.collection)
		}

		insert := `
			INSERT INTO records (collection, key, position, body)
			VALUES (?, ?, ?, ?)`

		for i, item := range items {
			body, err := json.Marshal(item)
			if err != nil {
				return errors.Wrapf(err, "encode %s record %d", s.collection, i)
			}
			if err := tx.Exec(insert, s.collection, key(item), i, string(body)).Error; err != nil {
				return errors.Wrapf(err, "insert %s record %q", s.collection, key(item))
			}
		}
		return nil
	})
}

func (s *SQLiteStore[V]) GetByKey(ctx context.Context, key string) (V, error) {
	var zero V

	query := `SELECT body FROM records WHERE collection = ? AND key = ?`
	var body string
	err := s.db.WithContext(ctx).Raw(query, s.collection, key).Row().Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, errors.Wrapf(err, "query %s record %q", s.collection, key)
	}

	var v V
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return zero, errors.Wrapf(err, "decode %s record %q", s.collection, key)
	}
	return v, nil
}

func (s *SQLiteStore[V]) FindByPredicate(ctx context.Context, match func(V) bool) ([]V, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []V
	for _, v := range all {
		if match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *SQLiteStore[V]) ListAll(ctx context.Context) ([]V, error) {
	query := `
		SELECT body
		FROM records
		WHERE collection = ?
		ORDER BY position ASC`

	rows, err := s.db.WithContext(ctx).Raw(query, s.collection).Rows()
	if err != nil {
		return nil, errors.Wrapf(err, "query %s records", s.collection)
	}
	defer rows.Close()

	out := []V{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, errors.Wrapf(err, "scan %s record", s.collection)
		}
		var v V
		if err := json.Unmarshal([]byte(body), &v); err != nil {
			return nil, errors.Wrapf(err, "decode %s record", s.collection)
		}
		out = append(out, v)
	}
	return out, errors.Wrapf(rows.Err(), "iterate %s records", s.collection)
}
