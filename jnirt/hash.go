package jnirt

import "github.com/zeebo/xxh3"

// TypeHash returns the type-hash of a native type identity, the import
// path and type name joined by a dot. The generator embeds the result as
// a constant in both the getTypeHash bridge and the argument checks, so it
// must stay stable across releases.
func TypeHash(identity string) int64 {
	return int64(xxh3.HashString(identity))
}
