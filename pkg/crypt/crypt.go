// Package crypt seals short secrets (the remote credential in settings.json)
// with AES-256-GCM.
//
// Sealed values are base64url(nonce || ciphertext || tag) and can be stored in
// a JSON document as plain strings:
//
//	box := crypt.New(config.AppKey())
//	sealed, _ := box.Seal("db-password")
//	plain, _ := box.Open(sealed)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrDecrypt is returned when decoding, decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// Box encrypts and decrypts with a key derived from a secret.
type Box struct {
	key [32]byte
}

// New derives an AES-256 key from secret via SHA-256.
func New(secret string) *Box {
	return &Box{key: sha256.Sum256([]byte(secret))}
}

func (b *Box) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(b.key[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return gcm, nil
}

// Seal encrypts plaintext and returns a base64url string.
func (b *Box) Seal(plaintext string) (string, error) {
	gcm, err := b.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (b *Box) Open(encoded string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}

	gcm, err := b.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrDecrypt
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// Hash returns the SHA-256 hex digest of input.
func Hash(input []byte) string {
	h := sha256.Sum256(input)
	return fmt.Sprintf("%x", h)
}
