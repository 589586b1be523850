package usecase

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashAsset computes the content fingerprint of raw asset bytes.
//
// SHA3-512 hex. Fingerprint equality is treated as content equality: two
// logically different files are assumed never to collide, so the digest is
// the global deduplication key across all non-deleted assets.
func HashAsset(data []byte) string {
	digest := sha3.Sum512(data)
	return hex.EncodeToString(digest[:])
}
