package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bizplan/internal/storage"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS stored_values (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

const sqliteUpsert = `INSERT INTO stored_values (key, value, created_at, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SQLiteStoreRepository is the file-backed storage.KeyValueStore for single
// node deployments.
type SQLiteStoreRepository struct {
	db *sql.DB
}

func NewSQLiteStoreRepository(db *sql.DB) *SQLiteStoreRepository {
	return &SQLiteStoreRepository{db: db}
}

var _ storage.KeyValueStore = (*SQLiteStoreRepository)(nil)

func (r *SQLiteStoreRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create stored_values: %w", err)
	}
	return nil
}

func (r *SQLiteStoreRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM stored_values WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *SQLiteStoreRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

func (r *SQLiteStoreRepository) SetMany(ctx context.Context, values map[string]string) (err error) {
	if err := storage.CheckKeys(values); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().Unix()
	for k, v := range values {
		if _, err = tx.ExecContext(ctx, sqliteUpsert, k, v, now, now); err != nil {
			return fmt.Errorf("upsert %q: %w", k, err)
		}
	}
	return tx.Commit()
}
