// Package encoding serializes a documentation database to JSON, YAML and TOML,
// and derives the short object IDs used in exported documents.
//
// Base-63 Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), _ (62)
// An object ID is the base-63 form of the xxhash of its path, at most 11 chars.
package encoding

import (
	"github.com/cespare/xxhash/v2"
)

// Base-63 encoding constants
const (
	Base63     = 63
	Alphabet63 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"
)

// Base63Encode encodes a uint64 value to a base-63 string.
// Returns "A" for zero (minimum non-empty encoding).
func Base63Encode(value uint64) string {
	if value == 0 {
		return "A"
	}

	// 11 chars cover the largest uint64
	var buf [11]byte
	pos := len(buf)
	for value > 0 {
		pos--
		buf[pos] = Alphabet63[value%Base63]
		value /= Base63
	}
	return string(buf[pos:])
}

// ObjectID returns the stable export ID for an object path.
func ObjectID(path string) string {
	return Base63Encode(xxhash.Sum64String(path))
}
