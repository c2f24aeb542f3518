//go:build !key16 && !key24 && !key32

package cellar

// EntityIndexBits is the active entity index width for this build.
// 20 bits (roughly one million entities) is the default; select another
// width with the key16, key24, or key32 build tag.
const EntityIndexBits = 20
