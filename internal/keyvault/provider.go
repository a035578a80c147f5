package keyvault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	vault "github.com/hashicorp/vault/api"
)

// Provider is an interface for envelope-encryption services. Different
// backends (local master key, AWS KMS, HashiCorp Vault Transit) implement
// this interface to protect wallet keys at rest.
type Provider interface {
	// Encrypt encrypts data using the key service
	Encrypt(ctx context.Context, data []byte) ([]byte, error)

	// Decrypt decrypts data using the key service
	Decrypt(ctx context.Context, encryptedData []byte) ([]byte, error)

	// Name returns the provider name (e.g., "local", "aws-kms", "vault")
	Name() string
}

// ProviderType represents supported key-service providers
type ProviderType string

const (
	// ProviderLocal uses a local master key with AES-GCM (development/simple deployments)
	ProviderLocal ProviderType = "local"

	// ProviderAWSKMS uses AWS KMS
	ProviderAWSKMS ProviderType = "aws-kms"

	// ProviderVault uses HashiCorp Vault Transit engine
	ProviderVault ProviderType = "vault"
)

// ProviderConfig contains configuration for key-service providers
type ProviderConfig struct {
	// Provider specifies which backend to use
	Provider string

	// Local provider config
	LocalMasterKey string

	// AWS KMS config
	AWSKMSKeyID  string
	AWSKMSRegion string

	// Vault config
	VaultAddress    string
	VaultToken      string
	VaultTransitKey string
}

// NewProvider creates a Provider based on the configuration
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	switch ProviderType(cfg.Provider) {
	case ProviderLocal, "": // Default to local
		return NewLocalProvider(cfg.LocalMasterKey)

	case ProviderAWSKMS:
		return NewAWSKMSProvider(cfg.AWSKMSKeyID, cfg.AWSKMSRegion)

	case ProviderVault:
		return NewVaultProvider(cfg.VaultAddress, cfg.VaultToken, cfg.VaultTransitKey)

	default:
		return nil, fmt.Errorf("unsupported key-service provider: %s (supported: %s, %s, %s)",
			cfg.Provider, ProviderLocal, ProviderAWSKMS, ProviderVault)
	}
}

// LocalProvider implements Provider using a local master key with AES-GCM.
// Suitable for development or simple self-hosted deployments.
type LocalProvider struct {
	masterKey []byte
}

// NewLocalProvider creates a new local provider
func NewLocalProvider(masterKey string) (*LocalProvider, error) {
	if masterKey == "" {
		return nil, fmt.Errorf("master key is required for local provider")
	}

	// Pad or truncate to a 32-byte AES-256 key
	key := make([]byte, 32)
	copy(key, []byte(masterKey))

	return &LocalProvider{masterKey: key}, nil
}

// Encrypt encrypts data using AES-GCM with the local master key
func (p *LocalProvider) Encrypt(ctx context.Context, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(p.masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, data, nil), nil
}

// Decrypt decrypts data using AES-GCM with the local master key
func (p *LocalProvider) Decrypt(ctx context.Context, encryptedData []byte) ([]byte, error) {
	block, err := aes.NewCipher(p.masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encryptedData) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := encryptedData[:nonceSize], encryptedData[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}

	return plaintext, nil
}

// Name returns the provider name
func (p *LocalProvider) Name() string {
	return string(ProviderLocal)
}

// AWSKMSProvider implements Provider using AWS KMS
type AWSKMSProvider struct {
	keyID  string
	region string
	client *kms.Client
}

// NewAWSKMSProvider creates a new AWS KMS provider
func NewAWSKMSProvider(keyID, region string) (*AWSKMSProvider, error) {
	if keyID == "" {
		return nil, fmt.Errorf("AWS KMS key ID is required")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS region is required")
	}

	// Uses default credential chain: env vars, shared config, IAM role, etc.
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSKMSProvider{
		keyID:  keyID,
		region: region,
		client: kms.NewFromConfig(cfg),
	}, nil
}

// Encrypt encrypts data using AWS KMS
func (p *AWSKMSProvider) Encrypt(ctx context.Context, data []byte) ([]byte, error) {
	output, err := p.client.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(p.keyID),
		Plaintext: data,
	})
	if err != nil {
		return nil, fmt.Errorf("AWS KMS encrypt failed: %w", err)
	}
	return output.CiphertextBlob, nil
}

// Decrypt decrypts data using AWS KMS
func (p *AWSKMSProvider) Decrypt(ctx context.Context, encryptedData []byte) ([]byte, error) {
	output, err := p.client.Decrypt(ctx, &kms.DecryptInput{
		KeyId:          aws.String(p.keyID),
		CiphertextBlob: encryptedData,
	})
	if err != nil {
		return nil, fmt.Errorf("AWS KMS decrypt failed: %w", err)
	}
	return output.Plaintext, nil
}

// Name returns the provider name
func (p *AWSKMSProvider) Name() string {
	return string(ProviderAWSKMS)
}

// VaultProvider implements Provider using HashiCorp Vault Transit engine
type VaultProvider struct {
	transitKey string
	client     *vault.Client
}

// NewVaultProvider creates a new Vault provider
func NewVaultProvider(address, token, transitKey string) (*VaultProvider, error) {
	if address == "" {
		return nil, fmt.Errorf("Vault address is required")
	}
	if token == "" {
		return nil, fmt.Errorf("Vault token is required")
	}
	if transitKey == "" {
		return nil, fmt.Errorf("Vault transit key name is required")
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = address

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(token)

	return &VaultProvider{
		transitKey: transitKey,
		client:     client,
	}, nil
}

// Encrypt encrypts data using Vault Transit engine
func (p *VaultProvider) Encrypt(ctx context.Context, data []byte) ([]byte, error) {
	// Vault Transit requires base64-encoded plaintext
	plaintext := base64.StdEncoding.EncodeToString(data)

	path := fmt.Sprintf("transit/encrypt/%s", p.transitKey)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"plaintext": plaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("Vault Transit encrypt failed: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("Vault Transit encrypt returned empty response")
	}

	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok {
		return nil, fmt.Errorf("Vault Transit encrypt: ciphertext not found in response")
	}

	// The ciphertext is a vault:v1:... string
	return []byte(ciphertext), nil
}

// Decrypt decrypts data using Vault Transit engine
func (p *VaultProvider) Decrypt(ctx context.Context, encryptedData []byte) ([]byte, error) {
	path := fmt.Sprintf("transit/decrypt/%s", p.transitKey)
	secret, err := p.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"ciphertext": string(encryptedData),
	})
	if err != nil {
		return nil, fmt.Errorf("Vault Transit decrypt failed: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("Vault Transit decrypt returned empty response")
	}

	plaintextB64, ok := secret.Data["plaintext"].(string)
	if !ok {
		return nil, fmt.Errorf("Vault Transit decrypt: plaintext not found in response")
	}

	plaintext, err := base64.StdEncoding.DecodeString(plaintextB64)
	if err != nil {
		return nil, fmt.Errorf("Vault Transit decrypt: failed to decode plaintext: %w", err)
	}

	return plaintext, nil
}

// Name returns the provider name
func (p *VaultProvider) Name() string {
	return string(ProviderVault)
}

// Ensure providers implement Provider
var (
	_ Provider = (*LocalProvider)(nil)
	_ Provider = (*AWSKMSProvider)(nil)
	_ Provider = (*VaultProvider)(nil)
)
