package pypage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Cache defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultNegativeCacheTTL = 30 * time.Second
)

// CachedStore wraps any TemplateStore with an in-memory cache of Get results.
type CachedStore struct {
	store  TemplateStore
	config CacheConfig

	mu     sync.Mutex
	cache  map[string]*cacheEntry
	closed bool
}

// CacheConfig configures the caching behavior.
type CacheConfig struct {
	// TTL is how long cached entries remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached templates.
	// When exceeded, the least recently used entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeCacheTTL is how long to cache "not found" results.
	// Set to 0 to disable negative caching.
	NegativeCacheTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:              DefaultCacheTTL,
		MaxEntries:       DefaultCacheMaxEntries,
		NegativeCacheTTL: DefaultNegativeCacheTTL,
	}
}

type cacheEntry struct {
	template   *StoredTemplate
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries         int
	ValidEntries    int
	NegativeEntries int
}

// NewCachedStore wraps store with caching. Zero TTL or MaxEntries fall back
// to the defaults.
func NewCachedStore(store TemplateStore, config CacheConfig) *CachedStore {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}

	return &CachedStore{
		store:  store,
		config: config,
		cache:  make(map[string]*cacheEntry),
	}
}

// Get retrieves a template, using the cache when a valid entry exists.
func (s *CachedStore) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, NewStoreClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		entry.accessedAt = time.Now()
		s.mu.Unlock()
		if entry.notFound {
			return nil, NewTemplateNotFoundError(name)
		}
		return copyStoredTemplate(entry.template), nil
	}
	s.mu.Unlock()

	tmpl, err := s.store.Get(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	if err != nil {
		if s.config.NegativeCacheTTL > 0 && errors.Is(err, ErrTemplateNotFound) {
			s.addEntry(name, nil, true)
		}
		return nil, err
	}

	s.addEntry(name, tmpl, false)
	return copyStoredTemplate(tmpl), nil
}

// Save stores a template and invalidates its cache entry.
func (s *CachedStore) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := s.store.Save(ctx, tmpl); err != nil {
		return err
	}
	s.Invalidate(tmpl.Name)
	return nil
}

// Delete removes a template and invalidates its cache entry.
func (s *CachedStore) Delete(ctx context.Context, name string) error {
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// List returns template names (bypasses cache).
func (s *CachedStore) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Exists checks if a template exists, answering from the cache when possible.
func (s *CachedStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, NewStoreClosedError()
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		s.mu.Unlock()
		return !entry.notFound, nil
	}
	s.mu.Unlock()

	return s.store.Exists(ctx, name)
}

// Close drops the cache and closes the underlying store.
func (s *CachedStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.store.Close()
}

// Invalidate removes a template from the cache.
func (s *CachedStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *CachedStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*cacheEntry)
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var valid, negative int
	for _, entry := range s.cache {
		if !s.isValid(entry) {
			continue
		}
		if entry.notFound {
			negative++
		} else {
			valid++
		}
	}

	return CacheStats{
		Entries:         len(s.cache),
		ValidEntries:    valid,
		NegativeEntries: negative,
	}
}

// isValid checks if a cache entry is still within its TTL
func (s *CachedStore) isValid(entry *cacheEntry) bool {
	ttl := s.config.TTL
	if entry.notFound {
		ttl = s.config.NegativeCacheTTL
	}
	return time.Since(entry.cachedAt) < ttl
}

// addEntry adds an entry, evicting the least recently used one at capacity.
// Caller must hold the lock.
func (s *CachedStore) addEntry(name string, tmpl *StoredTemplate, notFound bool) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	s.cache[name] = &cacheEntry{
		template:   copyStoredTemplate(tmpl),
		notFound:   notFound,
		cachedAt:   now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry.
// Caller must hold the lock.
func (s *CachedStore) evictOldest() {
	var oldestName string
	var oldest *cacheEntry
	for name, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}
	if oldest != nil {
		delete(s.cache, oldestName)
	}
}
