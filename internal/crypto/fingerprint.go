package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a room key.
//
// It hashes a domain-separated copy of the key with SHA-256 and truncates to
// 10 bytes (20 hex chars). Peers who typed the same password see the same value.
func Fingerprint(k *Key) string {
	if !k.usable() {
		return ""
	}
	h := sha256.New()
	h.Write([]byte("cosmic-chat fingerprint:"))
	h.Write([]byte(k.suite))
	h.Write(k.k)
	return hex.EncodeToString(h.Sum(nil)[:10])
}
