package cellar

import "unsafe"

// UntypedStore is the type-erased columnar buffer plus presence bitset
// for one component type. Slots are addressed by entity index; a slot's
// bytes are only meaningful while its presence bit is set.
//
// An UntypedStore has no internal locking. Its sole owner (the registry)
// may mutate it freely; cross-system sharing goes through AtomicStore
// guards, which also serialize growth with outstanding borrows.
type UntypedStore struct {
	id       TypeID
	layout   Layout
	stride   int
	buffer   []byte
	presence Bitset
	capacity int
}

func newUntypedStore(c Component, capacity int) *UntypedStore {
	if capacity < 1 {
		capacity = 1
	}
	if capacity > maxSlotCount {
		capacity = maxSlotCount
	}
	layout := c.Layout()
	stride := layout.stride()
	return &UntypedStore{
		id:       c.ID(),
		layout:   layout,
		stride:   stride,
		buffer:   allocAligned(capacity*stride, layout.Align),
		presence: newBitset(capacity),
		capacity: capacity,
	}
}

// ID returns the TypeID of the component type this store holds
func (s *UntypedStore) ID() TypeID {
	return s.id
}

// Layout returns the element layout fixed at creation
func (s *UntypedStore) Layout() Layout {
	return s.layout
}

// Capacity returns the current slot count. Capacity grows monotonically
// and never shrinks.
func (s *UntypedStore) Capacity() int {
	return s.capacity
}

// Len returns the number of present slots
func (s *UntypedStore) Len() int {
	return s.presence.Len()
}

// Bitset exposes the presence bitset for query iteration
func (s *UntypedStore) Bitset() *Bitset {
	return &s.presence
}

// Contains reports whether slot i holds a value. O(1) bit test;
// out-of-range indices are simply absent.
func (s *UntypedStore) Contains(i uint32) bool {
	return int64(i) < int64(s.capacity) && s.presence.Test(i)
}

// Insert writes b (which must be exactly the element size) into slot i,
// growing the store first when i is beyond current capacity. The presence
// bit is set. When the slot was already present the previous bytes are
// copied out and returned with replaced=true.
//
// Panics with LayoutError when len(b) disagrees with the element size and
// with EntityLimitError when i exceeds the build's index width.
func (s *UntypedStore) Insert(i uint32, b []byte) (prev []byte, replaced bool) {
	if len(b) != s.layout.Size {
		panic(LayoutError{Want: s.layout.Size, Got: len(b)})
	}
	s.ensureCapacity(i)
	slot := s.slot(i)
	if s.presence.Test(i) {
		prev = append([]byte(nil), slot...)
		copy(slot, b)
		return prev, true
	}
	copy(slot, b)
	s.presence.set(i)
	return nil, false
}

// Remove clears slot i's presence bit and returns a copy of the previous
// bytes. Removing an absent or out-of-range slot is a no-op returning
// ok=false. Buffer space is not reclaimed.
func (s *UntypedStore) Remove(i uint32) (prev []byte, ok bool) {
	if int64(i) >= int64(s.capacity) || !s.presence.Test(i) {
		return nil, false
	}
	prev = append([]byte(nil), s.slot(i)...)
	s.presence.unset(i)
	return prev, true
}

// Get returns a view into the buffer at slot i if present. The view must
// not be written through; use GetMut for that.
func (s *UntypedStore) Get(i uint32) ([]byte, bool) {
	if int64(i) >= int64(s.capacity) || !s.presence.Test(i) {
		return nil, false
	}
	return s.slot(i), true
}

// GetMut returns a writable view into the buffer at slot i if present.
// The view is invalidated by the next growth of the store.
func (s *UntypedStore) GetMut(i uint32) ([]byte, bool) {
	if int64(i) >= int64(s.capacity) || !s.presence.Test(i) {
		return nil, false
	}
	return s.slot(i), true
}

func (s *UntypedStore) slot(i uint32) []byte {
	off := int(i) * s.stride
	end := off + s.layout.Size
	return s.buffer[off:end:end]
}

// slotPointer exposes the slot's address for typed facades. The caller
// must hold the same access rights as for GetMut.
func (s *UntypedStore) slotPointer(i uint32) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(s.buffer[int(i)*s.stride:]))
}

func (s *UntypedStore) ensureCapacity(i uint32) {
	if uint64(i) > uint64(MaxEntityIndex) {
		panic(EntityLimitError{Index: i})
	}
	needed := int(i) + 1
	if needed <= s.capacity {
		return
	}
	// Grow by doubling or to fit, whichever is larger
	newCap := max(needed, 2*s.capacity)
	if newCap > maxSlotCount {
		newCap = maxSlotCount
	}
	buffer := allocAligned(newCap*s.stride, s.layout.Align)
	copy(buffer, s.buffer)
	s.buffer = buffer
	s.presence.grow(newCap)
	s.capacity = newCap
}

// allocAligned returns a byte region of the given size whose first byte
// sits on an align boundary. Go's allocator aligns small allocations to
// 8 bytes already; the offset dance only matters for larger alignments.
func allocAligned(size, align int) []byte {
	if size == 0 {
		return nil
	}
	if align <= 1 {
		return make([]byte, size)
	}
	raw := make([]byte, size+align-1)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(unsafe.SliceData(raw))) % uintptr(align)); rem != 0 {
		off = align - rem
	}
	return raw[off : off+size : off+size]
}
