package cellar

// Cache is bounded, string-keyed slot storage. Registered items keep a
// stable integer index for their lifetime, so the index itself can be
// used as an identity (the registry uses cache slots as component row
// indices for query signature masks).
type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	GetItem32(uint32) *T
	Register(string, T) (int, error)
	Len() int
}

type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}
