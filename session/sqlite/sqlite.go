// Package sqlite persists session state in a local sqlite file, the durable
// analogue of the browser's local storage.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/gosom/saas-funnel-demo/session"
)

type store struct {
	db *sql.DB
}

func New(path string) (session.Store, error) {
	db, err := initDatabase(path)
	if err != nil {
		return nil, err
	}

	return &store{db: db}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv WHERE key = ?`

	var value []byte

	err := s.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, session.ErrNotFound
		}

		return nil, err
	}

	return value, nil
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, key, value, time.Now().UTC())

	return err
}

func (s *store) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv WHERE key = ?`

	result, err := s.db.ExecContext(ctx, q, key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return session.ErrNotFound
	}

	return nil
}

func initDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	const q = `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

	if _, err := db.Exec(q); err != nil {
		return nil, err
	}

	return db, nil
}
