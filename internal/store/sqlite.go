package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite implements [KV] backed by a single-table SQLite database.
//
// The path can be ":memory:" for an in-memory database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite-backed store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The store is accessed from concurrent tool calls; a single
	// connection serializes writes without SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			bucket     TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (bucket, key)
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Get returns the stored value and whether the key exists.
func (s *SQLite) Get(bucket, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(
		`SELECT value FROM kv WHERE bucket = ? AND key = ?`, bucket, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query kv: %w", err)
	}
	return value, true, nil
}

// Put stores a value, overwriting any existing entry.
func (s *SQLite) Put(bucket, key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (bucket, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (bucket, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, bucket, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert kv: %w", err)
	}
	return nil
}

// Delete removes a single key.
func (s *SQLite) Delete(bucket, key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE bucket = ? AND key = ?`, bucket, key); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}
	return nil
}

// DeletePrefix removes every key in the bucket with the given prefix.
func (s *SQLite) DeletePrefix(bucket, prefix string) error {
	if _, err := s.db.Exec(
		`DELETE FROM kv WHERE bucket = ? AND key LIKE ? ESCAPE '\'`,
		bucket, escapeLike(prefix)+"%",
	); err != nil {
		return fmt.Errorf("failed to delete kv prefix: %w", err)
	}
	return nil
}

// Keys lists the keys in the bucket with the given prefix.
func (s *SQLite) Keys(bucket, prefix string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT key FROM kv WHERE bucket = ? AND key LIKE ? ESCAPE '\' ORDER BY key`,
		bucket, escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query kv keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return keys, nil
}

// Clear removes every key in the bucket.
func (s *SQLite) Clear(bucket string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE bucket = ?`, bucket); err != nil {
		return fmt.Errorf("failed to clear bucket: %w", err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so prefixes containing % or _ match
// literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
