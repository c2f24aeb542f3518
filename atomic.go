package cellar

import "sync/atomic"

// writerClaim marks an exclusive write borrow in a cell's borrow counter
const writerClaim = -1

// borrowState is the runtime stand-in for a borrow checker across the
// scheduling boundary: idle (0), N readers (N), or one writer (-1).
// Transitions are CAS-based so borrow and release are safe from
// concurrently executing systems. Requests never block or queue;
// conflicts are reported immediately and retry policy stays with the
// scheduler.
type borrowState struct {
	n atomic.Int32
}

func (b *borrowState) tryRead() bool {
	for {
		c := b.n.Load()
		if c == writerClaim {
			return false
		}
		if b.n.CompareAndSwap(c, c+1) {
			return true
		}
	}
}

func (b *borrowState) tryWrite() bool {
	return b.n.CompareAndSwap(0, writerClaim)
}

func (b *borrowState) releaseRead() {
	b.n.Add(-1)
}

func (b *borrowState) releaseWrite() {
	b.n.Store(0)
}

// AtomicStore is a cheaply cloned shared handle over one component store.
// Every clone shares the same underlying store and borrow state, so a
// mutation through one clone is visible through all others. The store is
// released by the collector once the last clone is unreachable.
//
// Access goes through Borrow/BorrowMut guards: many concurrent readers,
// or exactly one writer. Because mutation (and therefore buffer growth)
// is only reachable through the write guard, growth is serialized with
// every outstanding borrow.
type AtomicStore[T any] struct {
	cell  *storeCell
	store Store[T]
}

// AtomicStoreFor returns an atomic handle for the component, creating the
// underlying store if needed. Handles obtained for the same component
// from the same registry share one borrow state.
func AtomicStoreFor[T any](r *Registry, c TypedComponent[T]) (AtomicStore[T], error) {
	cell, err := r.cellFor(c)
	if err != nil {
		return AtomicStore[T]{}, err
	}
	store, err := BindStore[T](cell.store)
	if err != nil {
		return AtomicStore[T]{}, err
	}
	return AtomicStore[T]{cell: cell, store: store}, nil
}

// Clone returns a handle referring to the same underlying store
func (a AtomicStore[T]) Clone() AtomicStore[T] {
	return a
}

// Borrow acquires shared read access. It fails immediately with
// BorrowConflictError while a write guard is outstanding.
func (a AtomicStore[T]) Borrow() (*ReadGuard[T], error) {
	if !a.cell.borrow.tryRead() {
		return nil, BorrowConflictError{}
	}
	return &ReadGuard[T]{store: a.store, borrow: &a.cell.borrow}, nil
}

// BorrowMut acquires exclusive write access. It fails immediately with
// BorrowConflictError while any other guard, read or write, is
// outstanding.
func (a AtomicStore[T]) BorrowMut() (*WriteGuard[T], error) {
	if !a.cell.borrow.tryWrite() {
		return nil, BorrowConflictError{Write: true}
	}
	return &WriteGuard[T]{store: a.store, borrow: &a.cell.borrow}, nil
}

// ReadGuard grants shared read access to a store until Release. Release
// on all exit paths, normally with defer.
type ReadGuard[T any] struct {
	store    Store[T]
	borrow   *borrowState
	released bool
}

// Get returns a copy of the entity's component value if present
func (g *ReadGuard[T]) Get(e Entity) (T, bool) {
	return g.store.Get(e)
}

// Contains reports whether the entity's slot holds a value
func (g *ReadGuard[T]) Contains(e Entity) bool {
	return g.store.Contains(e)
}

// Bitset exposes the presence bitset, e.g. as an auxiliary bitset for
// another store's iterator.
func (g *ReadGuard[T]) Bitset() *Bitset {
	return g.store.Bitset()
}

// Iter returns a read iterator driven by this store's presence bitset
// intersected with the given auxiliary bitsets. The iterator must not
// outlive the guard.
func (g *ReadGuard[T]) Iter(aux ...*Bitset) *Iter[T] {
	return newIter(g.store, aux)
}

// Release gives up the read claim. Idempotent.
func (g *ReadGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.borrow.releaseRead()
}

// WriteGuard grants exclusive access to a store until Release. Release
// on all exit paths, normally with defer.
type WriteGuard[T any] struct {
	store    Store[T]
	borrow   *borrowState
	released bool
}

// Insert writes v into the entity's slot, returning any replaced value
func (g *WriteGuard[T]) Insert(e Entity, v T) (T, bool) {
	return g.store.Insert(e, v)
}

// Remove clears the entity's slot, returning any previous value
func (g *WriteGuard[T]) Remove(e Entity) (T, bool) {
	return g.store.Remove(e)
}

// Get returns a copy of the entity's component value if present
func (g *WriteGuard[T]) Get(e Entity) (T, bool) {
	return g.store.Get(e)
}

// GetMut returns a pointer to the entity's component value if present
func (g *WriteGuard[T]) GetMut(e Entity) (*T, bool) {
	return g.store.GetMut(e)
}

// Contains reports whether the entity's slot holds a value
func (g *WriteGuard[T]) Contains(e Entity) bool {
	return g.store.Contains(e)
}

// Bitset exposes the presence bitset
func (g *WriteGuard[T]) Bitset() *Bitset {
	return g.store.Bitset()
}

// Iter returns a read iterator over this store intersected with the
// given auxiliary bitsets. The iterator must not outlive the guard.
func (g *WriteGuard[T]) Iter(aux ...*Bitset) *Iter[T] {
	return newIter(g.store, aux)
}

// IterMut returns a mutable iterator over this store intersected with
// the given auxiliary bitsets. The iterator must not outlive the guard.
func (g *WriteGuard[T]) IterMut(aux ...*Bitset) *IterMut[T] {
	return newIterMut(g.store, aux)
}

// Release gives up the write claim. Idempotent.
func (g *WriteGuard[T]) Release() {
	if g.released {
		return
	}
	g.released = true
	g.borrow.releaseWrite()
}
