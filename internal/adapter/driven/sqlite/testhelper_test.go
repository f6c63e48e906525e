package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated, named in-memory database. cache=shared lets
// the writer and reader handles see the same data; naming the database after
// the test isolates parallel tests from each other.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// The test name goes into the DSN's filename slot, so escape anything
	// that would read as a path separator or query string.
	// In-memory databases have no journal file, so the WAL pragma is omitted.
	memDSN := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		url.PathEscape(t.Name()),
	)

	openPool := func(maxConns int) *sql.DB {
		pool, err := sql.Open("sqlite", memDSN)
		require.NoError(t, err)
		pool.SetMaxOpenConns(maxConns)
		require.NoError(t, pool.PingContext(context.Background()))
		return pool
	}

	db := &DB{
		Writer: openPool(writerConns),
		Reader: openPool(readerConns),
		path:   memDSN,
	}
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer))

	return db
}
