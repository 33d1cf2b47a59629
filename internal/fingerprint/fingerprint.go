// Package fingerprint computes content digests over canonical JSON.
// Documents are canonicalized with RFC 8785 (JCS) before hashing, so key
// order and number formatting in the source do not change the digest.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Prefix is prepended to every digest.
const Prefix = "sha256:"

// Canonical returns the RFC 8785 form of a JSON document.
func Canonical(data []byte) ([]byte, error) {
	canonical, err := jcs.Transform(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return canonical, nil
}

// Digest hashes already-canonical bytes.
func Digest(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return Prefix + hex.EncodeToString(sum[:])
}

// Short returns the first 12 hex characters of a digest for display.
func Short(digest string) string {
	hexPart := digest
	if len(digest) > len(Prefix) && digest[:len(Prefix)] == Prefix {
		hexPart = digest[len(Prefix):]
	}
	if len(hexPart) > 12 {
		return hexPart[:12]
	}
	return hexPart
}
