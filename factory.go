package cellar

type factory struct{}

var Factory factory

func (f factory) NewRegistry() *Registry {
	return newRegistry()
}

func (f factory) NewQuery(reg *Registry) *Query {
	return newQuery(reg)
}

// NewUntypedStore creates a standalone store for the component, outside
// any registry. Capacity below 1 falls back to 1 slot.
func (f factory) NewUntypedStore(c Component, capacity int) *UntypedStore {
	return newUntypedStore(c, capacity)
}

// NewUntypedIter constructs an untyped read iterator over store,
// intersected with the given auxiliary bitsets.
func (f factory) NewUntypedIter(store *UntypedStore, aux ...*Bitset) *UntypedIter {
	return newUntypedIter(store, aux)
}

// NewUntypedIterMut constructs an untyped mutable iterator over store,
// intersected with the given auxiliary bitsets. The caller must hold
// exclusive access to store.
func (f factory) NewUntypedIterMut(store *UntypedStore, aux ...*Bitset) *UntypedIterMut {
	return newUntypedIterMut(store, aux)
}

func FactoryNewCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
