// Package sqlite implements the driven store ports on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connection pool sizing. Webhook deliveries serialize on the single writer
// connection, which sidesteps SQLITE_BUSY under bursty redeliveries; API
// reads fan out over the reader pool.
const (
	writerConns = 1
	readerConns = 4
)

// DB holds separate writer and reader handles over the same database file,
// opened in WAL mode so reads do not block behind webhook writes.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

func dsn(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		path,
	)
}

// open opens one pool against the database and verifies it answers.
func open(ctx context.Context, path string, maxConns int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(maxConns)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return pool, nil
}

// NewDB opens the writer and reader pools for the database at dbPath.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	writer, err := open(ctx, dbPath, writerConns)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}

	reader, err := open(ctx, dbPath, readerConns)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}

	return &DB{
		Writer: writer,
		Reader: reader,
		path:   dbPath,
	}, nil
}

// Close closes both pools and returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
