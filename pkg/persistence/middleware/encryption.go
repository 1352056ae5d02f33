package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/ports"
)

// envelopePrefix marks an encrypted message.
const envelopePrefix = "enc:v1:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new messages.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.FlashStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts flash messages
// at rest using AES-GCM. The kind stays readable.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, errors.New("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.FlashStore) ports.FlashStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Push(ctx context.Context, key string, f domain.Flash) error {
	ciphertext, err := encrypt([]byte(f.Message), m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt flash: %w", err)
	}
	f.Message = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	return m.next.Push(ctx, key, f)
}

// Drain decrypts every queued message. Plain messages are rejected.
func (m *encryptionMiddleware) Drain(ctx context.Context, key string) ([]domain.Flash, error) {
	flashes, err := m.next.Drain(ctx, key)
	if err != nil {
		return nil, err
	}
	for i, f := range flashes {
		encoded, ok := strings.CutPrefix(f.Message, envelopePrefix)
		if !ok {
			return nil, errors.New("flash is missing encrypted envelope")
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt flash: %w", err)
		}
		flashes[i].Message = string(plain)
	}
	return flashes, nil
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}
