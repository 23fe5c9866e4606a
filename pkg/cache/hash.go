package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns prefix:sha256(json(parts)). Parts must be JSON-encodable.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SourceHash identifies a diagram source together with the kind it is
// expected to parse as. A NUL separates the two so no kind/text pair can
// collide with another.
func SourceHash(kind, text string) string {
	return Hash([]byte(kind + "\x00" + text))
}
