// Package keyvault encrypts and decrypts custodial wallet keys through an
// external envelope-encryption service. The adapter is a stateless transform:
// it holds no secrets of its own and caches no decrypted material beyond the
// scope of a single call.
package keyvault

import (
	"context"

	apperrors "github.com/diirlabs/station-service/pkg/errors"
)

// Adapter wraps a Provider and speaks in hex-encoded wallet keys. Provider
// failures are surfaced as key-service errors and never retried here.
type Adapter struct {
	provider Provider
}

// NewAdapter creates a new Adapter on top of the given provider.
func NewAdapter(provider Provider) *Adapter {
	return &Adapter{provider: provider}
}

// Provider returns the underlying provider name.
func (a *Adapter) Provider() string {
	return a.provider.Name()
}

// EncryptKey encrypts a hex-encoded private key.
func (a *Adapter) EncryptKey(ctx context.Context, hexKey string) ([]byte, error) {
	ciphertext, err := a.provider.Encrypt(ctx, []byte(hexKey))
	if err != nil {
		return nil, apperrors.KeyService(err)
	}
	return ciphertext, nil
}

// DecryptKey decrypts a ciphertext blob back into a hex-encoded private key.
func (a *Adapter) DecryptKey(ctx context.Context, ciphertext []byte) (string, error) {
	plaintext, err := a.provider.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", apperrors.KeyService(err)
	}
	return string(plaintext), nil
}
