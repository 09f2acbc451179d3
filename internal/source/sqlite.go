package source

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	resberror "github.com/msto63/resb/foundation/core/error"
)

// SQLite stores bundle files as blobs keyed by name
type SQLite struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLite opens (and creates) the database at path
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, resberror.Wrap(err, "failed to open database").WithCode(resberror.CodeDatabaseError)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, resberror.Wrap(err, "failed to initialize schema").WithCode(resberror.CodeDatabaseError)
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put inserts or replaces the blob stored under name
func (s *SQLite) Put(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (name, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, name, data, time.Now().UTC())
	if err != nil {
		return resberror.Wrap(err, "failed to store "+name).WithCode(resberror.CodeDatabaseError)
	}
	return nil
}

// Open returns the blob stored under name
func (s *SQLite) Open(name string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM resources WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, resberror.Wrap(err, "failed to read "+name).WithCode(resberror.CodeDatabaseError)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Names lists the stored names in order
func (s *SQLite) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM resources ORDER BY name`)
	if err != nil {
		return nil, resberror.Wrap(err, "failed to list resources").WithCode(resberror.CodeDatabaseError)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return resberror.Wrap(err, "database ping failed").WithCode(resberror.CodeDatabaseError)
	}
	return nil
}
