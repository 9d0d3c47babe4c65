package fern

import (
	"reflect"
	"sync"

	"github.com/yohamta/donburi"
)

type contextKey struct {
	name  string
	owner Entity
}

// ContextRegistry maps (context type name, owner) to a provider entity.
// Descendants of an owner resolve the name to the nearest owner's provider,
// so providers of the same type shadow each other by depth.
type ContextRegistry struct {
	mu       sync.RWMutex
	bindings map[contextKey]Entity
}

// NewContextRegistry creates an empty registry.
func NewContextRegistry() *ContextRegistry {
	return &ContextRegistry{bindings: make(map[contextKey]Entity)}
}

// Set registers provider for name on owner's subtree, overwriting any
// previous registration for the same key.
func (r *ContextRegistry) Set(name string, owner, provider Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bindings == nil {
		r.bindings = make(map[contextKey]Entity)
	}
	r.bindings[contextKey{name, owner}] = provider
}

// Get returns the provider registered directly on owner.
func (r *ContextRegistry) Get(name string, owner Entity) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.bindings[contextKey{name, owner}]
	return p, ok
}

// Remove drops the registration for name on owner.
func (r *ContextRegistry) Remove(name string, owner Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bindings, contextKey{name, owner})
}

// RemoveOwner drops every registration made on owner.
func (r *ContextRegistry) RemoveOwner(owner Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.bindings {
		if k.owner == owner {
			delete(r.bindings, k)
		}
	}
}

// Len returns the number of registrations.
func (r *ContextRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// GetNearest walks start's strict ancestors in tree, nearest first, and
// returns the provider of the first owner that registered name. Lookups are
// not cached.
func (r *ContextRegistry) GetNearest(name string, start Entity, tree *Tree) (Entity, bool) {
	for owner := range tree.Ancestors(start) {
		if p, ok := r.Get(name, owner); ok {
			return p, true
		}
	}
	return donburi.Null, false
}

// ContextName returns the registry name used for contexts keyed by the Go
// type T.
func ContextName[T any]() string {
	return reflect.TypeFor[T]().String()
}
