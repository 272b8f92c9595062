package pypage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/itsatony/go-cuserr"
)

// StoredTemplate is a template source held by a TemplateStore.
type StoredTemplate struct {
	// Name is the lookup key. For filesystem stores it is the slash-separated
	// path relative to the store root.
	Name string `yaml:"name"`

	// Source is the raw template text.
	Source string `yaml:"source"`

	// UpdatedAt changes whenever Source is replaced; parsed-template caches
	// use it to detect stale entries.
	UpdatedAt time.Time `yaml:"updated_at"`
}

// TemplateStore is the interface for pluggable template sources.
// Implementations must be safe for concurrent use.
type TemplateStore interface {
	// Get retrieves a template by name.
	// Returns an error wrapping ErrTemplateNotFound if the name is unknown.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// Save creates or replaces a template. UpdatedAt is set by the store.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes a template.
	// Returns an error wrapping ErrTemplateNotFound if the name is unknown.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored templates in sorted order.
	List(ctx context.Context) ([]string, error)

	// Exists checks if a template with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the store.
	// After Close, every method returns an error wrapping ErrStoreClosed.
	Close() error
}

// StoreDriver is a factory for creating stores.
// Drivers register themselves during init().
type StoreDriver interface {
	// Open creates a store from a driver-specific connection string.
	Open(connectionString string) (TemplateStore, error)
}

// Store driver names
const (
	StoreDriverNameMemory     = "memory"
	StoreDriverNameFilesystem = "filesystem"
)

// Store error message constants
const (
	ErrMsgNilStoreDriver          = "store driver is nil"
	ErrMsgDriverAlreadyRegistered = "store driver already registered"
	ErrMsgStoreDriverNotFound     = "store driver not found"
	ErrMsgStoreClosed             = "store is closed"
	ErrMsgTemplateNotFound        = "template not found"
	ErrMsgInvalidTemplateName     = "invalid template name"
	ErrMsgInvalidStoreRoot        = "store root directory is required"
	ErrMsgStoreIO                 = "store I/O failed"
	ErrMsgNilStore                = "store cannot be nil"
)

// Store error codes and metadata keys
const (
	ErrCodeStore      = "PYPAGE_STORE"
	MetaKeyName       = "name"
	MetaKeyDriverName = "driver"
)

// Sentinel errors for errors.Is checks on store failures
var (
	ErrTemplateNotFound = errors.New(ErrMsgTemplateNotFound)
	ErrStoreClosed      = errors.New(ErrMsgStoreClosed)
)

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// Panics if driver is nil or a driver with the same name is already registered.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a store using the named driver.
//
// Example:
//
//	store, err := pypage.OpenStore("memory", "")
//	store, err := pypage.OpenStore("filesystem", "/path/to/templates")
func OpenStore(driverName, connectionString string) (TemplateStore, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, cuserr.NewNotFoundError(MetaKeyDriverName, ErrMsgStoreDriverNotFound).
			WithMetadata(MetaKeyDriverName, driverName)
	}
	return driver.Open(connectionString)
}

// ListStoreDrivers returns the sorted names of all registered store drivers.
func ListStoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewTemplateNotFoundError creates an error for an unknown template name
func NewTemplateNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrTemplateNotFound, ErrCodeStore, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewStoreClosedError creates an error for operations on a closed store
func NewStoreClosedError() error {
	return cuserr.WrapStdError(ErrStoreClosed, ErrCodeStore, ErrMsgStoreClosed)
}

// NewInvalidTemplateNameError creates an error for a name the store cannot hold
func NewInvalidTemplateNameError(name string) error {
	return cuserr.NewValidationError(ErrCodeStore, ErrMsgInvalidTemplateName).
		WithMetadata(MetaKeyName, name)
}

// NewStoreIOError wraps a failure of the underlying medium
func NewStoreIOError(name string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStore, ErrMsgStoreIO).
		WithMetadata(MetaKeyName, name)
}

func copyStoredTemplate(t *StoredTemplate) *StoredTemplate {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
