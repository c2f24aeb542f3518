package cellar

import (
	"reflect"
	"unsafe"
)

// zeroSized backs slot pointers for zero-size component types
var zeroSized byte

// Store is the typed facade over an UntypedStore. The component identity
// is checked once at bind time; after that every operation is a direct
// pointer view into the untyped buffer, with presence and growth handled
// by the untyped layer.
type Store[T any] struct {
	u *UntypedStore
}

// BindStore binds a typed facade to an untyped store. Binding fails with
// TypeError when the store holds a different component type.
func BindStore[T any](u *UntypedStore) (Store[T], error) {
	want := newComponentType(reflect.TypeFor[T]()).id
	if want != u.ID() {
		return Store[T]{}, TypeError{Want: want, Got: u.ID()}
	}
	return Store[T]{u: u}, nil
}

// Untyped returns the underlying store
func (s Store[T]) Untyped() *UntypedStore {
	return s.u
}

// Bitset exposes the presence bitset for query iteration
func (s Store[T]) Bitset() *Bitset {
	return s.u.Bitset()
}

// Contains reports whether the entity's slot holds a value
func (s Store[T]) Contains(e Entity) bool {
	return s.u.Contains(e.Index())
}

// Insert writes v into the entity's slot, growing the store if needed.
// When the slot was already present the previous value is returned with
// replaced=true.
func (s Store[T]) Insert(e Entity, v T) (prev T, replaced bool) {
	i := e.Index()
	s.u.ensureCapacity(i)
	p := s.ptr(i)
	if s.u.presence.Test(i) {
		prev = *p
		*p = v
		return prev, true
	}
	*p = v
	s.u.presence.set(i)
	return prev, false
}

// Remove clears the entity's slot and returns the previous value.
// Removing an absent slot is a no-op returning ok=false.
func (s Store[T]) Remove(e Entity) (prev T, ok bool) {
	i := e.Index()
	if !s.u.Contains(i) {
		return prev, false
	}
	prev = *s.ptr(i)
	s.u.presence.unset(i)
	return prev, true
}

// Get returns a copy of the entity's component value if present
func (s Store[T]) Get(e Entity) (T, bool) {
	i := e.Index()
	if !s.u.Contains(i) {
		var zero T
		return zero, false
	}
	return *s.ptr(i), true
}

// GetMut returns a pointer to the entity's component value if present.
// The pointer is invalidated by the next growth of the store.
func (s Store[T]) GetMut(e Entity) (*T, bool) {
	i := e.Index()
	if !s.u.Contains(i) {
		return nil, false
	}
	return s.ptr(i), true
}

// Iter returns a read iterator driven by this store's presence bitset
// intersected with the given auxiliary bitsets.
func (s Store[T]) Iter(aux ...*Bitset) *Iter[T] {
	return newIter(s, aux)
}

// IterMut returns a mutable iterator over this store intersected with
// the given auxiliary bitsets. The caller must hold exclusive access to
// the store.
func (s Store[T]) IterMut(aux ...*Bitset) *IterMut[T] {
	return newIterMut(s, aux)
}

func (s Store[T]) ptr(i uint32) *T {
	if s.u.layout.Size == 0 {
		return (*T)(unsafe.Pointer(&zeroSized))
	}
	return (*T)(s.u.slotPointer(i))
}

// typeHasPointers reports whether a value of t contains Go pointers
// (pointer fields, strings, slices, maps, channels, interfaces, funcs).
// Such types cannot live in the erased byte buffer: the collector does
// not scan it, so anything they reference could be freed underneath us.
func typeHasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.String, reflect.Slice,
		reflect.Map, reflect.Chan, reflect.Interface, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && typeHasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if typeHasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
