package cellar

import (
	"iter"
	"math/bits"
)

// bitsetScan walks the intersection of a driving bitset with any number
// of auxiliary bitsets in ascending index order. One word of the AND is
// materialized at a time; set bits are extracted lowest-first via
// trailing-zeros, so sparse bitsets skip whole words.
type bitsetScan struct {
	driving *Bitset
	aux     []*Bitset
	wordIdx int
	word    uint64
}

func newBitsetScan(driving *Bitset, aux []*Bitset) bitsetScan {
	return bitsetScan{driving: driving, aux: aux, wordIdx: -1}
}

func (s *bitsetScan) next() (uint32, bool) {
	for s.word == 0 {
		s.wordIdx++
		if s.wordIdx >= s.driving.WordCount() {
			return 0, false
		}
		w := s.driving.Word(s.wordIdx)
		for _, b := range s.aux {
			w &= b.Word(s.wordIdx)
		}
		s.word = w
	}
	bit := bits.TrailingZeros64(s.word)
	s.word &= s.word - 1
	return uint32(s.wordIdx*wordBits + bit), true
}

// UntypedIter yields, in ascending order, every entity index present in
// the driving store's bitset and in all auxiliary bitsets, together with
// a read view of the stored bytes. Single pass; construct a fresh
// iterator to traverse again.
type UntypedIter struct {
	store *UntypedStore
	scan  bitsetScan
	index uint32
	valid bool
}

func newUntypedIter(store *UntypedStore, aux []*Bitset) *UntypedIter {
	return &UntypedIter{store: store, scan: newBitsetScan(store.Bitset(), aux)}
}

// Next advances to the following matching entity, reporting whether one
// was found.
func (it *UntypedIter) Next() bool {
	it.index, it.valid = it.scan.next()
	return it.valid
}

// Index returns the entity index at the current position
func (it *UntypedIter) Index() uint32 {
	return it.index
}

// Bytes returns the component bytes at the current position. The view
// must not be written through; use UntypedIterMut for that.
func (it *UntypedIter) Bytes() []byte {
	return it.store.slot(it.index)
}

// All adapts the remaining positions to an iter.Seq2
func (it *UntypedIter) All() iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for it.Next() {
			if !yield(it.index, it.Bytes()) {
				return
			}
		}
	}
}

// UntypedIterMut is UntypedIter with writable byte views. It must only
// be constructed while holding exclusive access to the driving store;
// the Atomic wrapper's write guard enforces that discipline.
type UntypedIterMut struct {
	store *UntypedStore
	scan  bitsetScan
	index uint32
	valid bool
}

func newUntypedIterMut(store *UntypedStore, aux []*Bitset) *UntypedIterMut {
	return &UntypedIterMut{store: store, scan: newBitsetScan(store.Bitset(), aux)}
}

// Next advances to the following matching entity, reporting whether one
// was found.
func (it *UntypedIterMut) Next() bool {
	it.index, it.valid = it.scan.next()
	return it.valid
}

// Index returns the entity index at the current position
func (it *UntypedIterMut) Index() uint32 {
	return it.index
}

// Bytes returns a writable view of the component bytes at the current
// position.
func (it *UntypedIterMut) Bytes() []byte {
	return it.store.slot(it.index)
}

// All adapts the remaining positions to an iter.Seq2
func (it *UntypedIterMut) All() iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for it.Next() {
			if !yield(it.index, it.Bytes()) {
				return
			}
		}
	}
}

// Iter is the typed read iterator: ascending matching entity indices
// with value copies of the driving store's components.
type Iter[T any] struct {
	store Store[T]
	scan  bitsetScan
	index uint32
	valid bool
}

func newIter[T any](store Store[T], aux []*Bitset) *Iter[T] {
	return &Iter[T]{store: store, scan: newBitsetScan(store.Bitset(), aux)}
}

// Next advances to the following matching entity, reporting whether one
// was found.
func (it *Iter[T]) Next() bool {
	it.index, it.valid = it.scan.next()
	return it.valid
}

// Index returns the entity index at the current position
func (it *Iter[T]) Index() uint32 {
	return it.index
}

// Value returns a copy of the component at the current position
func (it *Iter[T]) Value() T {
	return *it.store.ptr(it.index)
}

// All adapts the remaining positions to an iter.Seq2
func (it *Iter[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		for it.Next() {
			if !yield(it.index, it.Value()) {
				return
			}
		}
	}
}

// IterMut is the typed mutable iterator: ascending matching entity
// indices with pointers into the driving store. Construct it only while
// holding exclusive access; the Atomic wrapper's write guard enforces
// that discipline.
type IterMut[T any] struct {
	store Store[T]
	scan  bitsetScan
	index uint32
	valid bool
}

func newIterMut[T any](store Store[T], aux []*Bitset) *IterMut[T] {
	return &IterMut[T]{store: store, scan: newBitsetScan(store.Bitset(), aux)}
}

// Next advances to the following matching entity, reporting whether one
// was found.
func (it *IterMut[T]) Next() bool {
	it.index, it.valid = it.scan.next()
	return it.valid
}

// Index returns the entity index at the current position
func (it *IterMut[T]) Index() uint32 {
	return it.index
}

// Value returns a pointer to the component at the current position. The
// pointer is invalidated by the next growth of the store.
func (it *IterMut[T]) Value() *T {
	return it.store.ptr(it.index)
}

// All adapts the remaining positions to an iter.Seq2
func (it *IterMut[T]) All() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for it.Next() {
			if !yield(it.index, it.Value()) {
				return
			}
		}
	}
}
