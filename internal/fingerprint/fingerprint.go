// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fingerprint computes short content hashes for duplicate detection.
// The digest is advisory: it groups likely duplicates and is not a
// security boundary.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Length is the number of hex characters kept from the SHA-256 digest.
const Length = 16

// Sum returns the fingerprint of content.
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])[:Length]
}

// Reader streams r through the hash and returns the fingerprint together
// with the number of bytes read.
func Reader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil))[:Length], n, nil
}
