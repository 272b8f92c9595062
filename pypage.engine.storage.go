package pypage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Log messages for stored-template execution
const (
	LogMsgParsedCacheHit  = "parsed template cache hit"
	LogMsgParsedCacheMiss = "parsed template cache miss"
	LogFieldTemplateName  = "template_name"
)

// StorageEngine combines a TemplateStore with an Engine. Stored templates are
// parsed once and re-parsed only when the store reports a newer UpdatedAt.
type StorageEngine struct {
	engine *Engine
	store  TemplateStore

	mu           sync.RWMutex
	parsedCache  map[string]*parsedCacheEntry
	cacheEnabled bool
}

type parsedCacheEntry struct {
	template  *Template
	updatedAt time.Time
}

// StorageEngineConfig configures the StorageEngine.
type StorageEngineConfig struct {
	// Store is the template source (required).
	Store TemplateStore

	// Engine parses and executes templates.
	// If nil, a new engine with default options is created.
	Engine *Engine

	// DisableParsedTemplateCache forces every call to re-parse the source.
	DisableParsedTemplateCache bool
}

// NewStorageEngine creates a new StorageEngine with the given configuration.
func NewStorageEngine(config StorageEngineConfig) (*StorageEngine, error) {
	if config.Store == nil {
		return nil, NewConfigError(ErrMsgNilStore)
	}

	engine := config.Engine
	if engine == nil {
		var err error
		engine, err = New()
		if err != nil {
			return nil, err
		}
	}

	return &StorageEngine{
		engine:       engine,
		store:        config.Store,
		parsedCache:  make(map[string]*parsedCacheEntry),
		cacheEnabled: !config.DisableParsedTemplateCache,
	}, nil
}

// MustNewStorageEngine creates a new StorageEngine, panicking on error.
func MustNewStorageEngine(config StorageEngineConfig) *StorageEngine {
	se, err := NewStorageEngine(config)
	if err != nil {
		panic(err)
	}
	return se
}

// Execute renders a stored template by name with the given data.
func (se *StorageEngine) Execute(ctx context.Context, name string, data map[string]any) (string, error) {
	tmpl, err := se.Parse(ctx, name)
	if err != nil {
		return "", err
	}
	return tmpl.Execute(ctx, data)
}

// ExecuteEnv renders a stored template against a caller-owned environment.
func (se *StorageEngine) ExecuteEnv(ctx context.Context, name string, env *Environment) (string, error) {
	tmpl, err := se.Parse(ctx, name)
	if err != nil {
		return "", err
	}
	return tmpl.ExecuteEnv(ctx, env)
}

// Validate checks a stored template's tag structure without executing it.
func (se *StorageEngine) Validate(ctx context.Context, name string) error {
	_, err := se.Parse(ctx, name)
	return err
}

// Parse loads a stored template and returns its parsed form.
func (se *StorageEngine) Parse(ctx context.Context, name string) (*Template, error) {
	stored, err := se.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if se.cacheEnabled {
		se.mu.RLock()
		entry, ok := se.parsedCache[name]
		se.mu.RUnlock()
		if ok && entry.updatedAt.Equal(stored.UpdatedAt) {
			se.engine.logger.Debug(LogMsgParsedCacheHit, zap.String(LogFieldTemplateName, name))
			return entry.template, nil
		}
	}

	se.engine.logger.Debug(LogMsgParsedCacheMiss, zap.String(LogFieldTemplateName, name))
	tmpl, err := se.engine.Parse(stored.Source)
	if err != nil {
		return nil, err
	}

	if se.cacheEnabled {
		se.mu.Lock()
		se.parsedCache[name] = &parsedCacheEntry{template: tmpl, updatedAt: stored.UpdatedAt}
		se.mu.Unlock()
	}
	return tmpl, nil
}

// Save stores a template after checking that it parses.
func (se *StorageEngine) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if tmpl != nil {
		if err := se.engine.Validate(tmpl.Source); err != nil {
			return err
		}
	}
	if err := se.store.Save(ctx, tmpl); err != nil {
		return err
	}
	se.InvalidateCache(tmpl.Name)
	return nil
}

// InvalidateCache drops the parsed form of one template.
func (se *StorageEngine) InvalidateCache(name string) {
	se.mu.Lock()
	delete(se.parsedCache, name)
	se.mu.Unlock()
}

// ClearCache drops every parsed template.
func (se *StorageEngine) ClearCache() {
	se.mu.Lock()
	se.parsedCache = make(map[string]*parsedCacheEntry)
	se.mu.Unlock()
}

// Engine returns the underlying engine.
func (se *StorageEngine) Engine() *Engine {
	return se.engine
}

// Store returns the underlying store.
func (se *StorageEngine) Store() TemplateStore {
	return se.store
}

// Close closes the underlying store.
func (se *StorageEngine) Close() error {
	se.ClearCache()
	return se.store.Close()
}
