package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sportsref/lib/entity"
	fetchdb "sportsref/lib/fetch/db"
	"sportsref/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cached bool) *Client {
	opts := Options{
		Throttle: time.Millisecond,
		Jitter:   -1,
	}
	if cached {
		database, err := fetchdb.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { database.Close() })
		opts.CacheDB = database
	}

	client, err := NewClient(opts)
	require.NoError(t, err)
	return client
}

func TestFetchCachesPages(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:fetch")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "<html><body>schedule</body></html>")
	}))
	defer server.Close()

	client := newTestClient(t, true)
	ctx := context.Background()

	first, err := client.Fetch(ctx, server.URL+"/years/2015/games.htm")
	require.NoError(t, err)
	second, err := client.Fetch(ctx, server.URL+"/years/2015/games.htm")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int64(1), hits.Load())
}

func TestFetchWithoutCacheRefetches(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:fetch")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := newTestClient(t, false)
	ctx := context.Background()

	_, err := client.Fetch(ctx, server.URL)
	require.NoError(t, err)
	_, err = client.Fetch(ctx, server.URL)
	require.NoError(t, err)

	require.Equal(t, int64(2), hits.Load())
}

func TestFetchDeletePageInvalidates(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:fetch")
	defer cleanup()

	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, "<html>v1</html>")
	}))
	defer server.Close()

	client := newTestClient(t, true)
	ctx := context.Background()

	_, err := client.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.NoError(t, client.qry.DeletePage(ctx, server.URL))

	_, err = client.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.Equal(t, int64(2), hits.Load())
}

func TestFetchErrorStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:fetch")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t, false)

	_, err := client.Fetch(context.Background(), server.URL+"/teams/xyz/")
	require.ErrorIs(t, err, entity.ErrFetchFailed)
}

func TestFetchFailureNotCached(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:fetch")
	defer cleanup()

	var healthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "<html>recovered</html>")
	}))
	defer server.Close()

	client := newTestClient(t, true)
	ctx := context.Background()

	_, err := client.Fetch(ctx, server.URL)
	require.ErrorIs(t, err, entity.ErrFetchFailed)

	// the failure was not cached, so the next call refetches and succeeds
	healthy.Store(true)
	body, err := client.Fetch(ctx, server.URL)
	require.NoError(t, err)
	require.Contains(t, body, "recovered")
}
