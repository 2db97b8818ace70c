package silo

// Config holds global configuration for the engine
var Config config = config{}

type config struct {
	entityCapacity int
	storeCapacity  int
}

// SetEntityCapacity sets the slot capacity hint applied when an entity
// allocator is created. Allocators grow past the hint on demand.
func (c *config) SetEntityCapacity(n int) {
	if n < 0 {
		n = 0
	}
	c.entityCapacity = n
}

// SetStoreCapacity sets the dense capacity hint applied when a component
// store is created. Stores grow past the hint on demand.
func (c *config) SetStoreCapacity(n int) {
	if n < 0 {
		n = 0
	}
	c.storeCapacity = n
}
