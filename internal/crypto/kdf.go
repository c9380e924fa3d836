package crypto

import (
	"context"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	KeyBytes   = 32
	NonceBytes = 12

	// KDFIterations is fixed so that every participant derives the same key.
	KDFIterations = 100000
	saltPrefix    = "cosmic-chat:"
)

// Suite selects the AEAD construction used with a derived key.
type Suite string

const (
	SuiteAESGCM           Suite = "aes-gcm"
	SuiteChaCha20Poly1305 Suite = "chacha20poly1305"
)

// ParseSuite maps a user supplied name onto a Suite. The empty string selects
// AES-GCM, which is what browser clients speak.
func ParseSuite(name string) (Suite, error) {
	switch Suite(name) {
	case "", SuiteAESGCM:
		return SuiteAESGCM, nil
	case SuiteChaCha20Poly1305:
		return SuiteChaCha20Poly1305, nil
	}
	return "", fmt.Errorf("unknown cipher suite %q", name)
}

// Key is a symmetric room key. The zero value is unusable.
type Key struct {
	suite Suite
	k     []byte
}

// Suite reports the AEAD construction bound to k.
func (k *Key) Suite() Suite { return k.suite }

// Destroy wipes the key material. Further use fails.
func (k *Key) Destroy() {
	if k == nil {
		return
	}
	Wipe(k.k)
	k.k = nil
}

func (k *Key) usable() bool { return k != nil && len(k.k) == KeyBytes }

// DeriveKey derives the room key for (password, roomID) with the default suite.
func DeriveKey(password, roomID string) *Key {
	return DeriveSuiteKey(SuiteAESGCM, password, roomID)
}

// DeriveSuiteKey derives the room key for (password, roomID) bound to suite.
// The salt is the fixed prefix followed by roomID, so a password reused in
// another room yields an unrelated key.
func DeriveSuiteKey(suite Suite, password, roomID string) *Key {
	salt := []byte(saltPrefix + roomID)
	k := pbkdf2.Key([]byte(password), salt, KDFIterations, KeyBytes, sha256.New)
	return &Key{suite: suite, k: k}
}

// DeriveKeyContext runs DeriveSuiteKey on its own goroutine. If ctx ends first
// it returns ctx.Err() and the late key is wiped when it arrives.
func DeriveKeyContext(ctx context.Context, suite Suite, password, roomID string) (*Key, error) {
	done := make(chan *Key, 1)
	go func() { done <- DeriveSuiteKey(suite, password, roomID) }()

	select {
	case k := <-done:
		if err := ctx.Err(); err != nil {
			k.Destroy()
			return nil, err
		}
		return k, nil
	case <-ctx.Done():
		go func() { (<-done).Destroy() }()
		return nil, ctx.Err()
	}
}
