// Package canon provides canonical JSON serialization and content-addressed
// identity for scorebook records.
//
// Canonical JSON follows the RFC 8785 subset the ledger needs:
//   - Object keys sorted by UTF-16 code units
//   - No insignificant whitespace, no HTML escaping
//   - Strings NFC normalized
//   - Floats and nulls are rejected (they break byte-stable hashing)
//
// Delivery IDs are SHA-256 over a domain prefix, a 0x00 separator, and the
// canonical bytes of the delivery's identifying fields. The same delivery
// appended at the same position of the same match always hashes the same,
// which is what lets replay compare a rebuilt ledger against the stored one.
package canon
