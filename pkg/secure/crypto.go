package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// ErrInvalidKeySize is returned for keys that are not 16, 24 or 32 bytes
var ErrInvalidKeySize = errors.New("encryption key must be 16, 24, or 32 bytes long")

// Cipher encrypts short strings with AES-GCM.
// A nil *Cipher passes values through unchanged, so callers can make
// encryption optional by configuration.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher validates the key and returns a Cipher.
// Supported key sizes: 16, 24, 32 bytes (AES-128/192/256).
func NewCipher(key []byte) (*Cipher, error) {
	keyLen := len(key)
	if keyLen != 16 && keyLen != 24 && keyLen != 32 {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: gcm}, nil
}

// EncryptString encrypts the given plaintext string using AES-GCM and returns a base64-encoded ciphertext.
// If the input is empty, it returns an empty string without error.
func (c *Cipher) EncryptString(plaintext string) (string, error) {
	if c == nil || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString decrypts a base64-encoded AES-GCM ciphertext string and returns the plaintext.
// If the input is empty, it returns an empty string without error.
func (c *Cipher) DecryptString(ciphertext string) (string, error) {
	if c == nil || ciphertext == "" {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	plainBytes, err := c.aead.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return "", err
	}

	return string(plainBytes), nil
}
