package cryptox

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// The vault key is stored as a symmetric ("oct") JSON Web Key so the same
// material survives reinstalls of the storage file and stays readable by
// other tooling.
type jwk struct {
	Kty string `json:"kty"`
	K   string `json:"k"`
	Alg string `json:"alg,omitempty"`
}

const jwkAlg = "A256GCM"

var ErrInvalidJWK = errors.New("invalid jwk key material")

// ExportJWK serializes a raw 32-byte AES key as an oct JWK document.
func ExportJWK(key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidKeySize, len(key))
	}
	return json.Marshal(jwk{
		Kty: "oct",
		K:   base64.RawURLEncoding.EncodeToString(key),
		Alg: jwkAlg,
	})
}

// ImportJWK parses an oct JWK document back into raw key bytes. Any
// structural problem (wrong kty, undecodable or wrong-size key) is reported
// as ErrInvalidJWK so the vault can fall back to key regeneration.
func ImportJWK(data []byte) ([]byte, error) {
	var j jwk
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJWK, err)
	}
	if j.Kty != "oct" {
		return nil, fmt.Errorf("%w: unexpected kty %q", ErrInvalidJWK, j.Kty)
	}
	key, err := base64.RawURLEncoding.DecodeString(j.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJWK, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidJWK, KeySize, len(key))
	}
	return key, nil
}
