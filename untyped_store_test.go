package cellar

import (
	"bytes"
	"testing"
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type Health struct {
	Value int32
}

// Tag is a zero-size marker component
type Tag struct{}

func payload(b byte, size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = b
	}
	return p
}

// TestUntypedStoreContains tests that presence reflects the most recent
// insert/remove on each slot
func TestUntypedStoreContains(t *testing.T) {
	tests := []struct {
		name string
		ops  func(s *UntypedStore)
		idx  uint32
		want bool
	}{
		{
			name: "Never touched",
			ops:  func(s *UntypedStore) {},
			idx:  3,
			want: false,
		},
		{
			name: "Inserted",
			ops: func(s *UntypedStore) {
				s.Insert(3, payload(1, 16))
			},
			idx:  3,
			want: true,
		},
		{
			name: "Inserted then removed",
			ops: func(s *UntypedStore) {
				s.Insert(3, payload(1, 16))
				s.Remove(3)
			},
			idx:  3,
			want: false,
		},
		{
			name: "Removed then reinserted",
			ops: func(s *UntypedStore) {
				s.Insert(3, payload(1, 16))
				s.Remove(3)
				s.Insert(3, payload(2, 16))
			},
			idx:  3,
			want: true,
		},
		{
			name: "Neighbor untouched by removal",
			ops: func(s *UntypedStore) {
				s.Insert(3, payload(1, 16))
				s.Insert(4, payload(2, 16))
				s.Remove(4)
			},
			idx:  3,
			want: true,
		},
		{
			name: "Beyond capacity",
			ops:  func(s *UntypedStore) {},
			idx:  1 << 12,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := FactoryNewComponent[Position]()
			store := Factory.NewUntypedStore(comp, 8)
			tt.ops(store)
			if got := store.Contains(tt.idx); got != tt.want {
				t.Errorf("Contains(%d) = %v, want %v", tt.idx, got, tt.want)
			}
		})
	}
}

// TestUntypedStorePreviousValues tests insert/remove return-previous semantics
func TestUntypedStorePreviousValues(t *testing.T) {
	comp := FactoryNewComponent[Position]()
	store := Factory.NewUntypedStore(comp, 8)

	if prev, replaced := store.Insert(2, payload(1, 16)); replaced || prev != nil {
		t.Errorf("insert into absent slot returned prev=%v replaced=%v", prev, replaced)
	}

	prev, replaced := store.Insert(2, payload(2, 16))
	if !replaced {
		t.Fatal("insert into present slot did not report replacement")
	}
	if !bytes.Equal(prev, payload(1, 16)) {
		t.Errorf("replacement returned wrong previous bytes: %v", prev)
	}

	prev, ok := store.Remove(2)
	if !ok {
		t.Fatal("remove of present slot failed")
	}
	if !bytes.Equal(prev, payload(2, 16)) {
		t.Errorf("remove returned wrong previous bytes: %v", prev)
	}

	if _, ok := store.Remove(2); ok {
		t.Error("remove of absent slot reported a value")
	}
	if _, ok := store.Get(2); ok {
		t.Error("get after remove reported a value")
	}
}

// TestUntypedStoreGrowth tests that growth preserves all existing slots and bits
func TestUntypedStoreGrowth(t *testing.T) {
	comp := FactoryNewComponent[Position]()
	store := Factory.NewUntypedStore(comp, 4)

	inserted := map[uint32][]byte{}
	for _, i := range []uint32{0, 1, 3} {
		p := payload(byte(i+1), 16)
		store.Insert(i, p)
		inserted[i] = p
	}

	before := store.Capacity()
	store.Insert(uint32(before)+100, payload(9, 16))
	if store.Capacity() <= before {
		t.Fatalf("capacity did not grow past %d", before)
	}

	for i, want := range inserted {
		got, ok := store.Get(i)
		if !ok {
			t.Fatalf("slot %d lost after growth", i)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("slot %d bytes changed after growth: got %v want %v", i, got, want)
		}
	}
	if store.Contains(2) {
		t.Error("absent slot became present after growth")
	}
}

// TestUntypedStoreGrowthPolicy tests doubling-or-fit reallocation
func TestUntypedStoreGrowthPolicy(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		index   uint32
		wantCap int
	}{
		{name: "Within capacity", start: 8, index: 7, wantCap: 8},
		{name: "Doubles", start: 8, index: 8, wantCap: 16},
		{name: "To fit when doubling is short", start: 8, index: 100, wantCap: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp := FactoryNewComponent[Health]()
			store := Factory.NewUntypedStore(comp, tt.start)
			store.Insert(tt.index, payload(1, 4))
			if got := store.Capacity(); got != tt.wantCap {
				t.Errorf("capacity = %d, want %d", got, tt.wantCap)
			}
		})
	}
}

func TestUntypedStoreLayoutMismatchPanics(t *testing.T) {
	comp := FactoryNewComponent[Position]()
	store := Factory.NewUntypedStore(comp, 4)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("short insert did not panic")
		}
		if _, ok := r.(LayoutError); !ok {
			t.Fatalf("panic value is %T, want LayoutError", r)
		}
	}()
	store.Insert(0, payload(1, 3))
}

func TestUntypedStoreEntityLimitPanics(t *testing.T) {
	if EntityIndexBits >= 32 {
		t.Skip("every uint32 index is addressable in this build")
	}
	comp := FactoryNewComponent[Health]()
	store := Factory.NewUntypedStore(comp, 4)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("out-of-range index did not panic")
		}
		if _, ok := r.(EntityLimitError); !ok {
			t.Fatalf("panic value is %T, want EntityLimitError", r)
		}
	}()
	limit := uint32(MaxEntityIndex)
	store.Insert(limit+1, payload(1, 4))
}

func TestUntypedStoreLen(t *testing.T) {
	comp := FactoryNewComponent[Health]()
	store := Factory.NewUntypedStore(comp, 4)

	for _, i := range []uint32{0, 2, 65, 130} {
		store.Insert(i, payload(1, 4))
	}
	store.Remove(2)
	if got := store.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
