package internal

import (
	"sort"
	"sync"
)

// Environment is the single name-to-value mapping shared by every node of a
// template run. Values are whatever the evaluator stores; plain Go values
// supplied by callers are converted by the evaluator when first read.
type Environment struct {
	vars map[string]any
	mu   sync.RWMutex
}

// NewEnvironment creates an environment seeded with a copy of data.
// If data is nil, the environment starts empty.
func NewEnvironment(data map[string]any) *Environment {
	vars := make(map[string]any, len(data))
	for k, v := range data {
		vars[k] = v
	}
	return &Environment{vars: vars}
}

// Get returns the value bound to name
func (e *Environment) Get(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[name]
	return v, ok
}

// Has reports whether name is bound
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set binds name to value, replacing any previous binding
func (e *Environment) Set(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = value
}

// Update merges values into the environment
func (e *Environment) Update(values map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range values {
		e.vars[k] = v
	}
}

// Delete removes the binding for name, if any
func (e *Environment) Delete(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.vars, name)
}

// Keys returns all bound names in sorted order
func (e *Environment) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bindings
func (e *Environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vars)
}

// Snapshot returns a shallow copy of all bindings
func (e *Environment) Snapshot() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// shadow saves the current bindings of names so they can be put back after
// a loop has rebound them.
func (e *Environment) shadow(names []string) map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	saved := make(map[string]any)
	for _, name := range names {
		if v, ok := e.vars[name]; ok {
			saved[name] = v
		}
	}
	return saved
}

// unshadow deletes names and reinstates the bindings saved by shadow
func (e *Environment) unshadow(names []string, saved map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, name := range names {
		delete(e.vars, name)
	}
	for k, v := range saved {
		e.vars[k] = v
	}
}
