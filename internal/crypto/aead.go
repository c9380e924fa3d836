package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrDecryption is returned for any blob that does not open under the key.
	ErrDecryption = errors.New("decryption failed")
	// ErrNoKey is returned when a nil or destroyed key is used.
	ErrNoKey = errors.New("no usable key")
)

func newAEAD(k *Key) (cipher.AEAD, error) {
	if !k.usable() {
		return nil, ErrNoKey
	}
	switch k.suite {
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.New(k.k)
	case SuiteAESGCM, "":
		block, err := aes.NewCipher(k.k)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	}
	return nil, fmt.Errorf("unknown cipher suite %q", k.suite)
}

// Encrypt seals plaintext under k and returns base64(nonce || ciphertext).
func Encrypt(k *Key, plaintext string) (string, error) {
	aead, err := newAEAD(k)
	if err != nil {
		return "", err
	}
	buf := make([]byte, NonceBytes, NonceBytes+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sealed := aead.Seal(buf, buf[:NonceBytes], []byte(plaintext), nil)
	return B64(sealed), nil
}

// Decrypt opens a blob produced by Encrypt.
func Decrypt(k *Key, blob string) (string, error) {
	aead, err := newAEAD(k)
	if err != nil {
		return "", err
	}
	raw, err := UnB64(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if len(raw) < NonceBytes+aead.Overhead() {
		return "", fmt.Errorf("%w: blob too short", ErrDecryption)
	}
	pt, err := aead.Open(nil, raw[:NonceBytes], raw[NonceBytes:], nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(pt), nil
}
