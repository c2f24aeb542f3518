package cellar

import (
	"iter"
	"log/slog"
)

// maxComponentTypes bounds how many distinct component types one registry
// can hold. The bound keeps every registry slot addressable as a mask bit
// in query signatures.
const maxComponentTypes = 64

// storeCell pairs a store with the borrow state shared by every atomic
// handle for its component type. The cell's address is stable for the
// registry's lifetime.
type storeCell struct {
	store  *UntypedStore
	borrow borrowState
}

// Registry maps component types to their stores; at most one store exists
// per TypeID. The registry is owned by the world and is not itself safe
// for concurrent mutation: systems running in parallel share stores
// through AtomicStore handles instead.
type Registry struct {
	cells *SimpleCache[*storeCell]
}

func newRegistry() *Registry {
	return &Registry{
		cells: FactoryNewCache[*storeCell](maxComponentTypes),
	}
}

// GetOrCreate returns the store for the given component, creating it
// lazily on first access. Creation sizes the store to the registry's
// current capacity estimate so late-registered types don't start far
// behind their peers. Idempotent: repeat calls return the same store.
func (r *Registry) GetOrCreate(c Component) (*UntypedStore, error) {
	if idx, ok := r.cells.GetIndex(c.ID().String()); ok {
		return (*r.cells.GetItem(idx)).store, nil
	}
	cell := &storeCell{store: newUntypedStore(c, r.capacityEstimate())}
	if _, err := r.cells.Register(c.ID().String(), cell); err != nil {
		return nil, err
	}
	slog.Debug(
		"component store created",
		slog.String("component", c.Name()),
		slog.Int("capacity", cell.store.Capacity()),
	)
	return cell.store, nil
}

// Get returns the store for the given component if one exists. It never
// creates.
func (r *Registry) Get(c Component) (*UntypedStore, bool) {
	idx, ok := r.cells.GetIndex(c.ID().String())
	if !ok {
		return nil, false
	}
	return (*r.cells.GetItem(idx)).store, true
}

// RowIndexFor returns the component's registry slot, used as its bit in
// query signature masks. The component must already have a store.
func (r *Registry) RowIndexFor(c Component) (uint32, bool) {
	idx, ok := r.cells.GetIndex(c.ID().String())
	return uint32(idx), ok
}

// Stores yields every store in registration order
func (r *Registry) Stores() iter.Seq[*UntypedStore] {
	return func(yield func(*UntypedStore) bool) {
		for i := 0; i < r.cells.Len(); i++ {
			if !yield((*r.cells.GetItem(i)).store) {
				return
			}
		}
	}
}

// capacityEstimate is the configured default raised to the largest
// capacity any existing store has grown to. Stores still grow
// independently afterwards; only presence bits decide query correctness.
func (r *Registry) capacityEstimate() int {
	estimate := Config.DefaultCapacity()
	for i := 0; i < r.cells.Len(); i++ {
		if c := (*r.cells.GetItem(i)).store.Capacity(); c > estimate {
			estimate = c
		}
	}
	return estimate
}

func (r *Registry) cellFor(c Component) (*storeCell, error) {
	if idx, ok := r.cells.GetIndex(c.ID().String()); ok {
		return *r.cells.GetItem(idx), nil
	}
	if _, err := r.GetOrCreate(c); err != nil {
		return nil, err
	}
	idx, _ := r.cells.GetIndex(c.ID().String())
	return *r.cells.GetItem(idx), nil
}

// StoreFor returns a typed store for the component, creating the
// underlying untyped store if needed.
func StoreFor[T any](r *Registry, c TypedComponent[T]) (Store[T], error) {
	u, err := r.GetOrCreate(c)
	if err != nil {
		return Store[T]{}, err
	}
	return BindStore[T](u)
}
