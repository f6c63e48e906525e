package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

const testSHA = "abc123def4567890abc123def4567890abc123de"

// newTestClient spins up an httptest server and returns a Client pointed at it
// along with a request counter.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewClientWithHTTPClient(server.Client(), server.URL+"/")
	require.NoError(t, err)
	return client, &calls
}

func TestFetchCommitStats(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/repos/acme/webapp/commits/%s", testSHA), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sha": %q, "stats": {"additions": 12, "deletions": 3, "total": 15}}`, testSHA)
	})

	stats, err := client.FetchCommitStats(context.Background(), "acme", "webapp", testSHA)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 12, stats.Additions)
	assert.Equal(t, 3, stats.Deletions)
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetchCommitStats_NoStatsInResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sha": %q}`, testSHA)
	})

	stats, err := client.FetchCommitStats(context.Background(), "acme", "webapp", testSHA)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestFetchCommitStats_APIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})

	stats, err := client.FetchCommitStats(context.Background(), "acme", "webapp", testSHA)
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.Contains(t, err.Error(), "fetching commit")
}

func TestFetchCommitStats_RejectsInvalidRefs(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name  string
		owner string
		repo  string
		sha   string
	}{
		{"owner with slash", "acme/evil", "webapp", testSHA},
		{"repo with path traversal", "acme", "../secrets", testSHA},
		{"empty owner", "", "webapp", testSHA},
		{"short sha", "acme", "webapp", "abc123"},
		{"sha with query", "acme", "webapp", testSHA[:38] + "?x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.FetchCommitStats(context.Background(), tc.owner, tc.repo, tc.sha)
			assert.ErrorIs(t, err, driven.ErrInvalidRef)
		})
	}

	assert.Equal(t, int64(0), calls.Load(), "invalid refs must never reach the network")
}
