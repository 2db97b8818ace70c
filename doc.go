/*
Package silo provides an Entity-Component-System (ECS) data engine for games and simulations.

Silo stores each component type in its own sparse-set backed store: a dense value
column, a presence bitset keyed by entity index, and the sparse links tying them
together. Queries intersect presence bitsets, so joins never touch component data
until a match is visited.

Core Concepts:

  - Entity: A generational handle. Indices are recycled, generations are not, so a
    stale handle reads as absent instead of aliasing the slot's new occupant.
  - Component: Plain data attached to entities, one store per Go type.
  - System: Update logic that declares the stores, resources, and allocator access
    it needs; the scheduler resolves those declarations into a Frame per invocation.
  - Resource: A world singleton, at most one value per type.

Basic Usage:

	// Create a world and its stores
	world := silo.Factory.NewWorld()
	pos := silo.StoreFor[Position](world)
	vel := silo.StoreFor[Velocity](world)

	// Create entities
	player := world.Create()
	pos.Insert(player, Position{X: 0, Y: 0})
	vel.Insert(player, Velocity{X: 3, Y: 1})

	// Join and process
	silo.Each2(world, func(e silo.Entity, p *Position, v *Velocity) {
		p.X += v.X
		p.Y += v.Y
	})

Scheduled execution goes through systems instead of direct joins:

	sched := silo.Factory.NewDefaultScheduler()
	sched.AddSystem(silo.StageUpdate, silo.NewSystem(func(f *silo.Frame) error {
		pos := silo.StoreOf[Position](f)
		vel := silo.StoreOf[Velocity](f)
		for e, v := range vel.IterWithBitset(pos.Bitset()) {
			if p, ok := pos.Get(e); ok {
				p.X += v.X
				p.Y += v.Y
			}
		}
		return nil
	}, silo.Writes[Position](), silo.Reads[Velocity]()))
	sched.Run(world)

Stores and the entity allocator serialize to self-describing binary snapshots via
encoding.BinaryMarshaler, and decode only into a store whose schema structurally
matches.
*/
package silo
