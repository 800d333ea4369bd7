// Package crypto encrypts sensitive profile fields at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sealedPrefix marks a string produced by FieldCipher.Seal.
const sealedPrefix = "enc:v1:"

var (
	// ErrEmptyKey is returned when no key material is configured.
	ErrEmptyKey = errors.New("encryption key is empty")
	// ErrKeySize is returned for keys that are not 32 bytes.
	ErrKeySize = errors.New("encryption key must be 32 bytes")
	// ErrCiphertextTooShort is returned when the nonce prefix is missing.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encrypter encrypts and decrypts data.
type Encrypter interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// AESEncrypter uses AES-256-GCM with a random nonce prefix.
type AESEncrypter struct {
	aead cipher.AEAD
}

// NewAESGCMFromBase64Key creates an AESEncrypter from a base64-encoded 32-byte key.
func NewAESGCMFromBase64Key(encodedKey string) (*AESEncrypter, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return nil, ErrEmptyKey
	}
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESEncrypter{aead: aead}, nil
}

// Encrypt encrypts plaintext and prepends the nonce.
func (e *AESEncrypter) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	ciphertext := e.aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// Decrypt decrypts ciphertext with a nonce prefix.
func (e *AESEncrypter) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrCiphertextTooShort
	}
	return e.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
}

// FieldCipher seals individual string columns. A nil Encrypter stores
// values in plaintext, which is how local mode runs without a key.
type FieldCipher struct {
	enc Encrypter
}

// NewFieldCipher wraps an Encrypter. enc may be nil.
func NewFieldCipher(enc Encrypter) *FieldCipher {
	return &FieldCipher{enc: enc}
}

// Enabled reports whether values are encrypted.
func (c *FieldCipher) Enabled() bool {
	return c != nil && c.enc != nil
}

// Seal encrypts value into a prefixed base64 string. Empty values stay empty.
func (c *FieldCipher) Seal(value string) (string, error) {
	if value == "" || !c.Enabled() {
		return value, nil
	}
	out, err := c.enc.Encrypt([]byte(value))
	if err != nil {
		return "", fmt.Errorf("seal field: %w", err)
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged so
// rows written before a key was configured stay readable.
func (c *FieldCipher) Open(value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, sealedPrefix)
	if !ok {
		return value, nil
	}
	if !c.Enabled() {
		return "", errors.New("open field: value is encrypted but no key is configured")
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("open field: %w", err)
	}
	plain, err := c.enc.Decrypt(raw)
	if err != nil {
		return "", fmt.Errorf("open field: %w", err)
	}
	return string(plain), nil
}
