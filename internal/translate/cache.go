package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tontonin/internal/logging"
)

// StoreKey is the single key the whole cache map is persisted under.
const StoreKey = "translation-cache"

// TTL is how long an entry survives before a load purges it.
const TTL = 7 * 24 * time.Hour

// Entry is one cached translation.
type Entry struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// Cache is an expiring translation map persisted to a Store on every write.
// Expired entries are dropped when the cache is loaded, not on read.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	store   Store
	ttl     time.Duration
	now     func() time.Time
	logger  *log.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) CacheOption {
	return func(c *Cache) { c.logger = l }
}

// NewCache creates an empty cache backed by store. Call Load to read
// previously persisted entries.
func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		store:   store,
		ttl:     TTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

// Load replaces the in-memory map with the persisted one and purges expired
// entries. A missing or unreadable value starts the cache empty.
func (c *Cache) Load(ctx context.Context) error {
	data, err := c.store.Get(ctx, StoreKey)
	if errors.Is(err, ErrNoValue) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading translation cache: %w", err)
	}

	loaded := make(map[string]Entry)
	if err := json.Unmarshal(data, &loaded); err != nil {
		c.logger.Warn("discarding corrupt translation cache", "err", err)
		loaded = make(map[string]Entry)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = loaded
	if n := c.purgeLocked(c.now()); n > 0 {
		c.logger.Debug("purged expired translations", "count", n)
		return c.persistLocked(ctx)
	}
	return nil
}

// Get returns the cached translation for key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.Text, ok
}

// Set stores a translation and persists the whole map.
func (c *Cache) Set(ctx context.Context, key, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Text: text, Timestamp: c.now().UnixMilli()}
	return c.persistLocked(ctx)
}

// PurgeExpired drops entries older than the TTL as of now and persists the
// result. It returns how many entries were removed.
func (c *Cache) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.purgeLocked(now)
	if n == 0 {
		return 0, nil
	}
	return n, c.persistLocked(ctx)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) purgeLocked(now time.Time) int {
	cutoff := now.Add(-c.ttl).UnixMilli()
	n := 0
	for k, e := range c.entries {
		if e.Timestamp < cutoff {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

func (c *Cache) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding translation cache: %w", err)
	}
	if err := c.store.Put(ctx, StoreKey, data); err != nil {
		return fmt.Errorf("saving translation cache: %w", err)
	}
	return nil
}
