package cryptox

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for the optional keystore passphrase.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	saltSize      = 32
)

// sealedKey is the on-disk form of passphrase-wrapped key material: a random
// salt for key derivation plus the usual AES-GCM payload.
type sealedKey struct {
	Salt    string   `json:"salt"`
	Payload *Payload `json:"payload"`
}

// DeriveWrappingKey stretches a keystore passphrase into a 32-byte AES key
// with Argon2id. Deterministic for a given passphrase and salt.
func DeriveWrappingKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, KeySize)
}

// SealKey wraps exported key material under a passphrase-derived key.
// A random salt is generated per seal.
func SealKey(material, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	wk := DeriveWrappingKey(passphrase, salt)
	p, err := EncryptString(wk, string(material))
	if err != nil {
		return nil, err
	}

	return json.Marshal(sealedKey{Salt: Base64(salt), Payload: p})
}

// OpenKey unwraps material produced by SealKey. A wrong passphrase surfaces
// as a decryption error, which the vault treats the same as unparsable key
// material.
func OpenKey(sealed, passphrase []byte) ([]byte, error) {
	var sk sealedKey
	if err := json.Unmarshal(sealed, &sk); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	salt, err := FromBase64(sk.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: bad salt encoding: %w", ErrMalformedPayload, err)
	}
	if len(salt) != saltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrMalformedPayload, saltSize, len(salt))
	}

	wk := DeriveWrappingKey(passphrase, salt)
	material, err := DecryptString(wk, sk.Payload)
	if err != nil {
		return nil, err
	}
	return []byte(material), nil
}
