package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jurimetric/lexmeta/internal/infrastructure/monitoring/logging"
	"github.com/jurimetric/lexmeta/pkg/errors"
	"github.com/jurimetric/lexmeta/pkg/types/caselaw"
)

var ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")

// ExtractionCache memoises extraction results keyed by a SHA-256 digest of
// the opinion text. Identical documents therefore share one cache entry no
// matter where they were loaded from.
type ExtractionCache struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// CacheOption configures an ExtractionCache.
type CacheOption func(*ExtractionCache)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *ExtractionCache) { c.prefix = prefix }
}

// WithTTL overrides the entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ExtractionCache) { c.ttl = ttl }
}

// NewExtractionCache builds a cache over the given client.
func NewExtractionCache(client *Client, log logging.Logger, opts ...CacheOption) *ExtractionCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ExtractionCache{
		client: client,
		logger: log.Named("cache"),
		prefix: "lexmeta:extraction:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for an opinion text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func (c *ExtractionCache) fullKey(text string) string {
	return c.prefix + Key(text)
}

// jitterTTL spreads expirations by +/- 10% so entries written together do
// not all expire in the same instant.
func (c *ExtractionCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get looks up a prior extraction for the given text. The second return
// value reports whether the entry was present.
func (c *ExtractionCache) Get(ctx context.Context, text string) (*caselaw.CaseMetadata, bool, error) {
	data, err := c.client.Get(ctx, c.fullKey(text)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, errors.ErrCodeCacheError, "cache read failed")
	}

	meta := caselaw.NewCaseMetadata()
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, false, ErrSerializationFailed
	}
	return meta, true, nil
}

// Put stores an extraction result under the text's digest.
func (c *ExtractionCache) Put(ctx context.Context, text string, meta *caselaw.CaseMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := c.client.Set(ctx, c.fullKey(text), data, c.jitterTTL(c.ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write failed")
	}
	return nil
}

// Invalidate drops the cached result for the given text.
func (c *ExtractionCache) Invalidate(ctx context.Context, text string) error {
	if err := c.client.Del(ctx, c.fullKey(text)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
	}
	return nil
}

// GetOrCompute returns the cached extraction when present, otherwise runs
// compute and stores its result. Concurrent callers for the same text are
// collapsed into a single compute via singleflight. Cache failures degrade
// to computing directly; they never fail the extraction.
func (c *ExtractionCache) GetOrCompute(ctx context.Context, text string, compute func() (*caselaw.CaseMetadata, error)) (*caselaw.CaseMetadata, bool, error) {
	key := c.fullKey(text)

	if meta, ok, err := c.Get(ctx, text); err != nil {
		c.logger.Warn("cache read failed, computing directly", logging.Err(err))
	} else if ok {
		return meta, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have populated the entry while we
		// waited on the flight group.
		if meta, ok, err := c.Get(ctx, text); err == nil && ok {
			return meta, nil
		}

		meta, err := compute()
		if err != nil {
			return nil, err
		}
		if err := c.Put(ctx, text, meta); err != nil {
			c.logger.Warn("cache write failed", logging.Err(err))
		}
		return meta, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*caselaw.CaseMetadata), false, nil
}
