package postsearch

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a fixed-length digest of document content, used to
// detect changes without comparing full text. Two documents with equal IDs
// and equal fingerprints are considered identical and are never rewritten.
func Fingerprint(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, h)
	return hex.EncodeToString(b)
}
