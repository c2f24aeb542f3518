//go:build key32

package cellar

// EntityIndexBits is the active entity index width for this build.
const EntityIndexBits = 32
