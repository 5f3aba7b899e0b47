package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/questx-lab/interaction/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_memoryNonceRepository_Claim(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	repo := NewMemoryNonceRepository()
	repo.now = func() time.Time { return now }

	ok, err := repo.Claim(ctx, "sig-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// Same nonce within the ttl is refused.
	ok, err = repo.Claim(ctx, "sig-1", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	// Another nonce is independent.
	ok, err = repo.Claim(ctx, "sig-2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// Once expired, the nonce can be claimed again.
	now = now.Add(time.Minute)
	ok, err = repo.Claim(ctx, "sig-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func Test_memoryNonceRepository_Purge(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)
	repo := NewMemoryNonceRepository()
	repo.now = func() time.Time { return now }
	repo.maxEntries = 3

	for i := 0; i < 3; i++ {
		_, err := repo.Claim(ctx, fmt.Sprintf("old-%d", i), time.Second)
		require.NoError(t, err)
	}

	now = now.Add(time.Minute)
	_, err := repo.Claim(ctx, "fresh", time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, repo.seen.Size())
}

func Test_memoryNonceRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryNonceRepository()

	var wg sync.WaitGroup
	var claimed atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Claim(ctx, "same", time.Minute)
			if err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), claimed.Load())
}

func Test_memoryNonceRepository_ConcurrentRenew(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(1700000000, 0)
	repo := NewMemoryNonceRepository()
	repo.now = func() time.Time { return start }

	ok, err := repo.Claim(ctx, "sig", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	later := start.Add(time.Minute)
	repo.now = func() time.Time { return later }

	var wg sync.WaitGroup
	var claimed atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Claim(ctx, "sig", time.Second)
			if err == nil && ok {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), claimed.Load())

	expireAt, ok := repo.seen.Load("sig")
	require.True(t, ok)
	require.Equal(t, later.Add(time.Second), expireAt)
}

func Test_redisNonceRepository_Claim(t *testing.T) {
	var gotKey string
	var gotTTL time.Duration
	repo := NewRedisNonceRepository(&testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			gotKey, gotTTL = key, ttl
			return true, nil
		},
	})

	ok, err := repo.Claim(context.Background(), "abcd", 5*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "interactionnonce:abcd", gotKey)
	require.Equal(t, 5*time.Minute, gotTTL)

	repo = NewRedisNonceRepository(&testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			return false, errors.New("connection refused")
		},
	})
	_, err = repo.Claim(context.Background(), "abcd", time.Minute)
	require.Error(t, err)
}
