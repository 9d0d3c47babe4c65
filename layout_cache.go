package fern

import "sync"

// LayoutCache holds the solved rectangle of every mounted widget. A slot is
// created when a widget is inserted and removed when it is despawned.
type LayoutCache struct {
	mu     sync.RWMutex
	rects  map[Entity]Rect
	solved map[Entity]bool
}

// NewLayoutCache creates an empty cache.
func NewLayoutCache() *LayoutCache {
	return &LayoutCache{
		rects:  make(map[Entity]Rect),
		solved: make(map[Entity]bool),
	}
}

// Add creates an empty slot for entity if it has none.
func (c *LayoutCache) Add(entity Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rects[entity]; !ok {
		c.rects[entity] = Rect{}
	}
}

// Remove drops entity's slot.
func (c *LayoutCache) Remove(entity Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rects, entity)
	delete(c.solved, entity)
}

// Get returns the rectangle stored for entity.
func (c *LayoutCache) Get(entity Entity) (Rect, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rects[entity]
	return r, ok
}

// Set stores r for entity and marks its geometry solved. It reports whether
// the geometry differs from what was stored. Entities without a slot are
// ignored.
func (c *LayoutCache) Set(entity Entity, r Rect) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.rects[entity]
	if !ok {
		return false
	}
	c.rects[entity] = r
	changed := !c.solved[entity] || !old.SameGeometry(r)
	c.solved[entity] = true
	return changed
}

// setZ updates only the z-index of entity's slot.
func (c *LayoutCache) setZ(entity Entity, z float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.rects[entity]; ok {
		r.Z = z
		c.rects[entity] = r
	}
}

// seed stores a geometry estimate without marking it solved.
func (c *LayoutCache) seed(entity Entity, r Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rects[entity]; ok && !c.solved[entity] {
		c.rects[entity] = r
	}
}

// Solved reports whether the layout engine has placed entity at least once.
func (c *LayoutCache) Solved(entity Entity) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.solved[entity]
}

// Len returns the number of slots.
func (c *LayoutCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rects)
}
