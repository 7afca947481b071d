//go:build integration

package redis_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lexredis "github.com/jurimetric/lexmeta/internal/infrastructure/database/redis"
	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

func testClient(t *testing.T) *lexredis.Client {
	t.Helper()
	addr := os.Getenv("LEXMETA_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LEXMETA_TEST_REDIS_ADDR not set")
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	client := lexredis.NewClientWithRedis(rdb, nil)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))
	return client
}

func TestExtractionCacheRoundTrip(t *testing.T) {
	cache := lexredis.NewExtractionCache(testClient(t), nil, lexredis.WithPrefix("lexmeta:test:"))
	ctx := context.Background()
	text := "UNITED STATES v. NIXON"

	_, ok, err := cache.Get(ctx, text)
	require.NoError(t, err)
	assert.False(t, ok)

	meta := caselaw.NewCaseMetadata()
	meta.CaseName = "United States v. Nixon"
	meta.Citation = "418 U.S. 683"
	require.NoError(t, cache.Put(ctx, text, meta))

	got, ok, err := cache.Get(ctx, text)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "418 U.S. 683", got.Citation)

	require.NoError(t, cache.Invalidate(ctx, text))
	_, ok, err = cache.Get(ctx, text)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrComputeCollapsesConcurrentCalls(t *testing.T) {
	cache := lexredis.NewExtractionCache(testClient(t), nil, lexredis.WithPrefix("lexmeta:test:"))
	ctx := context.Background()
	text := "Marbury v. Madison"

	var computes int64
	compute := func() (*caselaw.CaseMetadata, error) {
		atomic.AddInt64(&computes, 1)
		m := caselaw.NewCaseMetadata()
		m.CaseName = "Marbury v. Madison"
		return m, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := cache.GetOrCompute(ctx, text, compute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&computes), int64(2))

	// A later call must hit the cache.
	_, hit, err := cache.GetOrCompute(ctx, text, compute)
	require.NoError(t, err)
	assert.True(t, hit)
}
