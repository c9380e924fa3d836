// Package crypto exposes the primitives behind room end-to-end encryption.
//
// Contents
//
//   - Room key derivation from (password, room) with PBKDF2-HMAC-SHA256
//     (DeriveKey, DeriveKeyContext)
//   - Authenticated encryption of message payloads into a single base64 blob
//     holding nonce and sealed data (Encrypt, Decrypt)
//   - Short key fingerprints for out-of-band comparison (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// A Key never leaves the process: it has no exported bytes and no JSON form.
// Every Encrypt call draws a fresh random nonce. Decrypt reports every failure
// (bad encoding, truncated blob, wrong key, tampering) as ErrDecryption so
// callers can treat them uniformly as a per-message condition.
package crypto
