package fern

import (
	"slices"
	"sync"
)

// UpdateFunc is a widget's update routine. It declares the widget's children
// and context bindings through ctx and reports whether the widget changed.
// Children declared by a routine that returns false are discarded.
type UpdateFunc func(ctx *WidgetContext, entity Entity) bool

// WidgetRegistry maps widget type names to update routines.
type WidgetRegistry struct {
	mu       sync.RWMutex
	routines map[string]UpdateFunc
}

// NewWidgetRegistry creates an empty registry.
func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{routines: make(map[string]UpdateFunc)}
}

// Register binds name to fn, replacing any previous routine.
func (r *WidgetRegistry) Register(name string, fn UpdateFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[name] = fn
}

// Lookup returns the routine registered under name.
func (r *WidgetRegistry) Lookup(name string) (UpdateFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.routines[name]
	return fn, ok
}

// Names returns the registered type names in sorted order.
func (r *WidgetRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.routines))
	for n := range r.routines {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
