// Package cache memoizes schema parses keyed by parse mode and DDL text.
//
// Results are shared between callers and must be treated as read-only.
package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"

	"github.com/tordrt/askdb/internal/ddl"
)

// DefaultMaxEntries is used when a non-positive size is configured
const DefaultMaxEntries = 1024

type entry struct {
	mode   ddl.Mode
	text   string
	result *ddl.Result
}

// ParseCache parses DDL text through a bounded in-memory cache
type ParseCache struct {
	cache   *ristretto.Cache[uint64, *entry]
	parsers map[ddl.Mode]*ddl.Parser
	logger  zerolog.Logger
}

// New creates a cache holding at most maxEntries parse results
func New(maxEntries int64, logger zerolog.Logger) (*ParseCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	c, err := ristretto.NewCache(&ristretto.Config[uint64, *entry]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}

	return &ParseCache{
		cache: c,
		parsers: map[ddl.Mode]*ddl.Parser{
			ddl.Lenient: ddl.NewParser(ddl.WithMode(ddl.Lenient), ddl.WithLogger(logger)),
			ddl.Strict:  ddl.NewParser(ddl.WithMode(ddl.Strict), ddl.WithLogger(logger)),
		},
		logger: logger,
	}, nil
}

// Parse returns the cached result for text in the given mode, parsing on a miss.
// Failed parses are not cached.
func (c *ParseCache) Parse(text string, mode ddl.Mode) (*ddl.Result, error) {
	key := xxh3.HashStringSeed(text, uint64(mode))

	// a hash collision is treated as a miss
	if e, ok := c.cache.Get(key); ok && e.mode == mode && e.text == text {
		c.logger.Debug().Uint64("key", key).Msg("parse cache hit")
		return e.result, nil
	}

	parser, ok := c.parsers[mode]
	if !ok {
		return nil, fmt.Errorf("unsupported parse mode: %d", mode)
	}

	result, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, &entry{mode: mode, text: text, result: result}, 1)
	c.cache.Wait()
	return result, nil
}

// Close releases the cache's background goroutines
func (c *ParseCache) Close() {
	c.cache.Close()
}
