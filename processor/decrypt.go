package processor

import (
	"crypto/aes"
	"crypto/cipher"
)

// aesGCMDecrypt opens ciphertext sealed by aesGCMEncrypt. Any authentication
// failure is reported as ErrDecryptionFailed.
func aesGCMDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(iv) != gcm.NonceSize() || len(ciphertext) < gcm.Overhead() {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// DecryptWithPassword re-derives the key from password and salt and opens the ciphertext
func DecryptWithPassword(salt, iv, ciphertext []byte, password string) ([]byte, error) {
	return aesGCMDecrypt(DeriveKey(password, salt), iv, ciphertext)
}
