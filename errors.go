package cellar

import "fmt"

// BorrowConflictError reports a borrow request that could not be satisfied
// because of outstanding guards. It is recoverable: retry once the
// conflicting guards are released.
type BorrowConflictError struct {
	Write bool
}

func (e BorrowConflictError) Error() string {
	if e.Write {
		return "write borrow conflicts with outstanding guards"
	}
	return "read borrow conflicts with an outstanding write guard"
}

// TypeError reports a typed facade bound to a store of a different
// component type. It signals a framework-level bug at bind time.
type TypeError struct {
	Want, Got TypeID
}

func (e TypeError) Error() string {
	return fmt.Sprintf("store type mismatch: want %v, got %v", e.Want, e.Got)
}

// LayoutError reports raw bytes whose length disagrees with the store's
// element size. It is panicked, not returned: the typed layer above is
// the only caller and a mismatch there is a programming error.
type LayoutError struct {
	Want, Got int
}

func (e LayoutError) Error() string {
	return fmt.Sprintf("layout mismatch: store element size is %d, got %d bytes", e.Want, e.Got)
}

// EntityLimitError reports an entity index beyond the build's addressable
// range (see EntityIndexBits). It is panicked: the external allocator is
// responsible for never issuing such an index.
type EntityLimitError struct {
	Index uint32
}

func (e EntityLimitError) Error() string {
	return fmt.Sprintf("entity index %d exceeds build maximum %d", e.Index, uint32(MaxEntityIndex))
}

// ComponentExistsError reports a component listed twice in one query.
type ComponentExistsError struct {
	Component Component
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already present in query: %s", e.Component.Name())
}

// EmptyQueryError reports iterator construction from a query with no
// component terms.
type EmptyQueryError struct{}

func (e EmptyQueryError) Error() string {
	return "query has no component terms"
}

// CacheFullError reports a cache that has reached its maximum capacity.
type CacheFullError struct {
	Capacity int
}

func (e CacheFullError) Error() string {
	return fmt.Sprintf("cache at maximum capacity (%d)", e.Capacity)
}
