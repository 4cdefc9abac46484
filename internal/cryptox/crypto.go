// Package cryptox implements the symmetric primitives behind the credential
// vault: AES-256-GCM string encryption with a fresh random IV per call, and
// key material serialization in JWK form.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// IVSize is the standard 96-bit GCM nonce length in bytes.
	IVSize = 12
)

var (
	ErrInvalidKeySize   = errors.New("encryption key must be 32 bytes")
	ErrMalformedPayload = errors.New("malformed encrypted payload")
)

// Payload is the at-rest form of an encrypted string: the random IV and the
// ciphertext (including the GCM auth tag), both standard-base64 encoded.
type Payload struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// GenerateKey returns a fresh random 256-bit AES key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// EncryptString encrypts plaintext under key with AES-256-GCM.
//
// A new random 12-byte IV is generated on every call; reusing an IV under
// the same key breaks GCM, so the IV is never cached or derived. Two calls
// with identical inputs therefore produce different payloads.
func EncryptString(key []byte, plaintext string) (*Payload, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext := aead.Seal(nil, iv, []byte(plaintext), nil)

	return &Payload{
		IV:         base64.StdEncoding.EncodeToString(iv),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

// DecryptString reverses EncryptString. It returns an error on a nil or
// undecodable payload, a wrong-size IV, or GCM authentication failure; the
// caller decides whether that is fatal (the vault treats it as "key not
// configured").
func DecryptString(key []byte, p *Payload) (string, error) {
	if p == nil || p.IV == "" || p.Ciphertext == "" {
		return "", ErrMalformedPayload
	}

	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return "", fmt.Errorf("%w: bad iv encoding: %w", ErrMalformedPayload, err)
	}
	if len(iv) != IVSize {
		return "", fmt.Errorf("%w: iv must be %d bytes, got %d", ErrMalformedPayload, IVSize, len(iv))
	}
	ciphertext, err := base64.StdEncoding.DecodeString(p.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding: %w", ErrMalformedPayload, err)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: authentication failed or corrupted data: %w", err)
	}
	return string(plaintext), nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
