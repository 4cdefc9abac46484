package cryptox

import "encoding/base64"

// Base64 encodes b with standard base64, the encoding used for every
// binary field the vault persists.
func Base64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// FromBase64 decodes a standard-base64 string.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
