package processor

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// aesGCMEncrypt encrypts plaintext with AES-GCM under the given key and IV.
// The authentication tag is appended to the returned ciphertext.
func aesGCMEncrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", gcm.NonceSize(), len(iv))
	}
	return gcm.Seal(nil, iv, plaintext, nil), nil
}

// EncryptWithPassword derives a key from the password and a fresh salt and
// encrypts data under a fresh IV.
func EncryptWithPassword(data []byte, password string) (salt, iv, ciphertext []byte, err error) {
	salt, err = GenerateRandomBytes(SaltSize)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("salt generation failed: %w", err)
	}
	iv, err = GenerateRandomBytes(IVSize)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("iv generation failed: %w", err)
	}

	ciphertext, err = aesGCMEncrypt(DeriveKey(password, salt), iv, data)
	if err != nil {
		return nil, nil, nil, err
	}
	return salt, iv, ciphertext, nil
}
