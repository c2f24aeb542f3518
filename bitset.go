package cellar

import "math/bits"

const wordBits = 64

// Bitset tracks per-slot presence for one store. Bit i set means slot i
// currently holds an initialized component value.
//
// Mutation is reserved to the owning store; readers get word-level access
// so iterators can intersect multiple bitsets without per-bit calls.
type Bitset struct {
	words []uint64
}

func newBitset(capacity int) Bitset {
	return Bitset{words: make([]uint64, wordCountFor(capacity))}
}

func wordCountFor(capacity int) int {
	return (capacity + wordBits - 1) / wordBits
}

// grow widens the bitset to cover capacity slots, preserving existing bits.
// The new region is all-zero (absent).
func (b *Bitset) grow(capacity int) {
	needed := wordCountFor(capacity)
	if needed <= len(b.words) {
		return
	}
	words := make([]uint64, needed)
	copy(words, b.words)
	b.words = words
}

func (b *Bitset) set(i uint32) {
	b.words[i/wordBits] |= 1 << (i % wordBits)
}

func (b *Bitset) unset(i uint32) {
	b.words[i/wordBits] &^= 1 << (i % wordBits)
}

// Test reports whether bit i is set. Bits beyond the bitset's width are
// reported as unset rather than faulting.
func (b *Bitset) Test(i uint32) bool {
	w := int(i / wordBits)
	if w >= len(b.words) {
		return false
	}
	return b.words[w]&(1<<(i%wordBits)) != 0
}

// Len returns the number of set bits
func (b *Bitset) Len() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}

// WordCount returns how many 64-bit words back the bitset
func (b *Bitset) WordCount() int {
	return len(b.words)
}

// Word returns the i-th 64-bit word; words beyond the width are zero
func (b *Bitset) Word(i int) uint64 {
	if i >= len(b.words) {
		return 0
	}
	return b.words[i]
}

// NextSet returns the index of the first set bit at or after from.
// The second result is false when no such bit exists.
func (b *Bitset) NextSet(from uint32) (uint32, bool) {
	w := int(from / wordBits)
	if w >= len(b.words) {
		return 0, false
	}
	word := b.words[w] >> (from % wordBits)
	if word != 0 {
		return from + uint32(bits.TrailingZeros64(word)), true
	}
	for w++; w < len(b.words); w++ {
		if b.words[w] != 0 {
			return uint32(w*wordBits + bits.TrailingZeros64(b.words[w])), true
		}
	}
	return 0, false
}

// Intersects reports whether the two bitsets share any set bit
func (b *Bitset) Intersects(other *Bitset) bool {
	n := min(len(b.words), len(other.words))
	for i := 0; i < n; i++ {
		if b.words[i]&other.words[i] != 0 {
			return true
		}
	}
	return false
}
