package processor

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters. Changing any of them breaks existing links.
const (
	SaltSize      = 16
	IVSize        = 12
	KeySize       = 32 // AES-256
	KDFIterations = 250000
)

// GenerateRandomBytes reads size bytes from the system CSPRNG
func GenerateRandomBytes(size int) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// DeriveKey derives the AES key from the password and salt (PBKDF2-HMAC-SHA256)
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, KDFIterations, KeySize, sha256.New)
}
