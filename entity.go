package cellar

// Entity is an opaque handle issued by an external allocator. Stores
// index purely by Index(); generation validity is the allocator's
// responsibility and is never re-checked here, so a stale handle simply
// reads whatever the slot currently holds according to its presence bit.
type Entity struct {
	idx uint32
	gen uint32
}

// NewEntity wraps an allocator-issued index and generation
func NewEntity(index, generation uint32) Entity {
	return Entity{idx: index, gen: generation}
}

// Index returns the storage slot this entity addresses
func (e Entity) Index() uint32 {
	return e.idx
}

// Generation returns the allocator's generation counter for this handle
func (e Entity) Generation() uint32 {
	return e.gen
}
