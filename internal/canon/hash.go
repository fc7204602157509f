package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// DomainRequest prefixes request fingerprints. The version suffix leaves
// room for a future change of the hashed shape.
const DomainRequest = "numreach/request/v1"

// hashWithDomain returns hex(SHA-256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RequestFingerprint identifies a puzzle independently of input order.
// Two requests with the same multiset of numbers, target and level share a
// fingerprint.
func RequestFingerprint(numbers []int, target, level int) (string, error) {
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	data, err := MarshalCanonical(map[string]any{
		"numbers": sorted,
		"target":  target,
		"level":   level,
	})
	if err != nil {
		return "", fmt.Errorf("RequestFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRequest, data), nil
}

// MustRequestFingerprint is like RequestFingerprint but panics on error.
// Use only when the inputs are known to be valid.
func MustRequestFingerprint(numbers []int, target, level int) string {
	fp, err := RequestFingerprint(numbers, target, level)
	if err != nil {
		panic(err)
	}
	return fp
}
