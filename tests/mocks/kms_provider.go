// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// MockKMSProvider is a mock key-vault provider. It performs real AES-GCM
// encryption under a random master key so ciphertexts behave realistically,
// and exposes behavior controls for failure injection.
type MockKMSProvider struct {
	mu           sync.RWMutex
	masterKey    []byte
	encryptCalls int
	decryptCalls int
	shouldFail   bool
}

// NewMockKMSProvider creates a new mock provider with a random master key.
func NewMockKMSProvider() *MockKMSProvider {
	key := make([]byte, 32)
	rand.Read(key)
	return &MockKMSProvider{masterKey: key}
}

// Encrypt encrypts data using AES-GCM.
func (m *MockKMSProvider) Encrypt(ctx context.Context, data []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.encryptCalls++
	if m.shouldFail {
		return nil, fmt.Errorf("mock kms: encrypt failure")
	}

	block, err := aes.NewCipher(m.masterKey)
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

	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt decrypts data previously produced by Encrypt.
func (m *MockKMSProvider) Decrypt(ctx context.Context, encryptedData []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.decryptCalls++
	if m.shouldFail {
		return nil, fmt.Errorf("mock kms: decrypt failure")
	}

	block, err := aes.NewCipher(m.masterKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(encryptedData) < gcm.NonceSize() {
		return nil, fmt.Errorf("mock kms: ciphertext too short")
	}

	nonce, ciphertext := encryptedData[:gcm.NonceSize()], encryptedData[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// Name returns the provider name.
func (m *MockKMSProvider) Name() string {
	return "mock"
}

// SetShouldFail configures the provider to fail all subsequent calls.
func (m *MockKMSProvider) SetShouldFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// EncryptCalls returns the number of Encrypt invocations.
func (m *MockKMSProvider) EncryptCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.encryptCalls
}

// DecryptCalls returns the number of Decrypt invocations.
func (m *MockKMSProvider) DecryptCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.decryptCalls
}
