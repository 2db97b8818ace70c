package silo

import "iter"

var _ iCursor = &Cursor{}

func newCursor(world *World, stores ...*UntypedComponentStore) *Cursor {
	return &Cursor{
		world:    world,
		required: stores,
	}
}

// And requires additional stores. The match set is re-derived on next use.
func (c *Cursor) And(stores ...*UntypedComponentStore) *Cursor {
	c.required = append(c.required, stores...)
	c.initialized = false
	return c
}

// Without excludes entities present in any of the given stores.
func (c *Cursor) Without(stores ...*UntypedComponentStore) *Cursor {
	c.excluded = append(c.excluded, stores...)
	c.initialized = false
	return c
}

// Seed replaces the default live-entity seed with an external bitset.
func (c *Cursor) Seed(b *Bitset) *Cursor {
	c.seed = b
	c.initialized = false
	return c
}

func (c *Cursor) Next() bool {
	c.initialize()
	idx, ok := c.matched.nextSet(c.scan)
	if !ok {
		c.Reset()
		return false
	}
	c.scan = idx + 1
	c.current = Entity{Index: idx, Generation: c.world.entities.generationOf(idx)}
	return true
}

// Entity returns the match at the cursor's current position.
func (c *Cursor) Entity() Entity { return c.current }

// Entities iterates every match from the start in ascending index order.
func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		c.initialize()
		for idx := range c.matched.All() {
			e := Entity{Index: idx, Generation: c.world.entities.generationOf(idx)}
			if !yield(e) {
				c.Reset()
				return
			}
		}
		c.Reset()
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	seed := c.seed
	if seed == nil {
		seed = c.world.entities.Bitset()
	}
	c.matched = seed.Clone()
	for _, store := range c.required {
		c.matched.IntersectWith(&store.bits)
	}
	for _, store := range c.excluded {
		c.matched.DifferenceWith(&store.bits)
	}
	c.scan = 0
	c.initialized = true
}

// Reset rewinds the cursor. The match set is re-derived on next use, so
// stores mutated since the last pass are picked up.
func (c *Cursor) Reset() {
	c.matched = nil
	c.scan = 0
	c.current = Entity{}
	c.initialized = false
}

func (c *Cursor) TotalMatched() int {
	c.initialize()
	return c.matched.Count()
}
