package cellar

// MaxEntityIndex is the largest entity index addressable in this build.
// It is derived from the active entity index width (see config_key*.go).
const MaxEntityIndex = 1<<EntityIndexBits - 1

// maxSlotCount caps store capacity and presence bitset width.
const maxSlotCount = 1 << EntityIndexBits

// Config holds global configuration for the storage system
var Config config = config{defaultCapacity: 64}

type config struct {
	defaultCapacity int
}

// SetDefaultCapacity sets the slot count newly created stores start with.
// The registry raises this estimate as larger entity indices are touched.
func (c *config) SetDefaultCapacity(n int) {
	if n < 1 {
		n = 1
	}
	if n > maxSlotCount {
		n = maxSlotCount
	}
	c.defaultCapacity = n
}

// DefaultCapacity returns the configured initial store capacity
func (c *config) DefaultCapacity() int {
	return c.defaultCapacity
}
