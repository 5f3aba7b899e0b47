package repository

import (
	"context"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/interaction/internal/common"
	"github.com/questx-lab/interaction/pkg/xredis"
)

// NonceRepository remembers values for a limited time. Claim returns true the
// first time a value is seen within its ttl and false afterwards.
type NonceRepository interface {
	Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

type redisNonceRepository struct {
	redisClient xredis.Client
}

func NewRedisNonceRepository(redisClient xredis.Client) *redisNonceRepository {
	return &redisNonceRepository{redisClient: redisClient}
}

func (r *redisNonceRepository) Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	return r.redisClient.SetNX(ctx, common.RedisKeyInteractionNonce(nonce), "1", ttl)
}

const defaultMaxMemoryNonces = 10000

type memoryNonceRepository struct {
	seen *xsync.MapOf[string, time.Time]

	// expireMu serializes replacing and deleting expired entries. Fresh
	// inserts go through LoadOrStore without it.
	expireMu sync.Mutex

	maxEntries int
	now        func() time.Time
}

func NewMemoryNonceRepository() *memoryNonceRepository {
	return &memoryNonceRepository{
		seen:       xsync.NewMapOf[time.Time](),
		maxEntries: defaultMaxMemoryNonces,
		now:        time.Now,
	}
}

func (r *memoryNonceRepository) Claim(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	now := r.now()
	expireAt, loaded := r.seen.LoadOrStore(nonce, now.Add(ttl))
	claimed := !loaded
	if loaded && !now.Before(expireAt) {
		claimed = r.renew(nonce, now, ttl)
	}

	if r.seen.Size() > r.maxEntries {
		r.purge(now)
	}

	return claimed, nil
}

// renew takes over a nonce whose previous claim has expired.
func (r *memoryNonceRepository) renew(nonce string, now time.Time, ttl time.Duration) bool {
	r.expireMu.Lock()
	defer r.expireMu.Unlock()

	expireAt, loaded := r.seen.LoadOrStore(nonce, now.Add(ttl))
	if !loaded {
		return true
	}

	if now.Before(expireAt) {
		return false
	}

	r.seen.Store(nonce, now.Add(ttl))
	return true
}

func (r *memoryNonceRepository) purge(now time.Time) {
	r.expireMu.Lock()
	defer r.expireMu.Unlock()

	r.seen.Range(func(nonce string, expireAt time.Time) bool {
		if !now.Before(expireAt) {
			r.seen.Delete(nonce)
		}
		return true
	})
}
