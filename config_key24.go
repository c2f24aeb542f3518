//go:build key24

package cellar

// EntityIndexBits is the active entity index width for this build.
const EntityIndexBits = 24
