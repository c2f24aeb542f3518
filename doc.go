/*
Package cellar provides the component-storage core for entity-component
frameworks: per-type columnar buffers indexed by entity, presence bitsets
tracking which entities hold a value, and bitset-intersection iterators
for queries.

Cellar stores component values type-erased, so a framework can manage
arbitrary component types uniformly, and layers typed facades plus
runtime-borrow-checked shared handles on top so the same storage can be
read and written from concurrently scheduled systems.

Core Concepts:

  - Entity: an opaque index/generation handle issued by an external allocator.
  - Component: a plain value type attached to at most one entity, stored column-wise per type.
  - UntypedStore: the erased columnar buffer plus presence bitset for one component type.
  - Store: a typed facade over an UntypedStore, checked once at bind time.
  - Registry: the world-level index mapping component types to their stores.
  - AtomicStore: a cheaply cloned shared handle with fail-fast read/write borrow guards.
  - Iterators: yield the ascending intersection of several presence bitsets.

Basic Usage:

	// Define components
	position := cellar.FactoryNewComponent[Position]()
	velocity := cellar.FactoryNewComponent[Velocity]()

	// Create a registry and typed stores
	registry := cellar.Factory.NewRegistry()
	positions, _ := cellar.StoreFor(registry, position)
	velocities, _ := cellar.StoreFor(registry, velocity)

	// Attach components to allocator-issued entities
	positions.Insert(player, Position{X: 1, Y: 2})
	velocities.Insert(player, Velocity{X: 0, Y: -1})

	// Iterate entities holding both components
	it := positions.IterMut(velocities.Bitset())
	for it.Next() {
		vel, _ := velocities.Get(cellar.NewEntity(it.Index(), 0))
		pos := it.Value()
		pos.X += vel.X
		pos.Y += vel.Y
	}

Systems scheduled on separate goroutines share a store through
AtomicStore handles instead of the registry:

	handle, _ := cellar.AtomicStoreFor(registry, position)
	guard, err := handle.BorrowMut()
	if err != nil {
		// another system holds a guard; retry later
	}
	defer guard.Release()

Cellar is the storage layer underneath the Bappa Framework's scene
worlds but works as a standalone library.
*/
package cellar
