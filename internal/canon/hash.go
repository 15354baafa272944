package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm change.
const (
	DomainDelivery = "scorebook/delivery/v1"
	DomainSnapshot = "scorebook/snapshot/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the domain-separated hash of v's canonical encoding.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// DeliveryID computes the content-addressed ID for a delivery record.
// fields must already contain the match id and insertion sequence so that
// two identical balls at different points of a match hash differently.
func DeliveryID(fields map[string]any) (string, error) {
	return Hash(DomainDelivery, fields)
}
