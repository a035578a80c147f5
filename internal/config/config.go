package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/diirlabs/station-service/pkg/types"
)

// Config holds infrastructure-level configuration. The Environment value is
// resolved once here and injected into the contract registry and wallet
// service constructors; nothing else reads it at runtime.
type Config struct {
	// Environment: development, test or production
	Environment types.Environment

	// Database
	PostgresDSN string

	// Chain RPC endpoint
	RPCURL string

	// Key vault
	KMSProvider        string // local, aws-kms or vault
	KMSLocalMasterKey  string
	KMSAWSKeyID        string
	KMSAWSRegion       string
	KMSVaultAddress    string
	KMSVaultToken      string
	KMSVaultTransitKey string

	// Operator key used for subsidized mints. Plain hex in development,
	// KMS-encrypted base64 otherwise.
	AdminKeyHex        string
	AdminKeyCiphertext string

	// Seed for deterministic development wallets.
	DevWalletSeed string

	// Auth
	JWTSecret string

	// Server
	Port int
}

// Per-environment RPC defaults, overridable via RPC_URL.
var defaultRPCURLs = map[types.Environment]string{
	types.EnvDevelopment: "http://127.0.0.1:8545",
	types.EnvTest:        "https://rpc-mumbai.maticvigil.com",
	types.EnvProduction:  "https://polygon-rpc.com",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := types.Environment(getEnv("ENVIRONMENT", string(types.EnvDevelopment)))

	cfg := &Config{
		Environment:        env,
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		RPCURL:             getEnv("RPC_URL", defaultRPCURLs[env]),
		KMSProvider:        getEnv("KMS_PROVIDER", "local"),
		KMSLocalMasterKey:  getEnv("KMS_LOCAL_MASTER_KEY", ""),
		KMSAWSKeyID:        getEnv("KMS_AWS_KEY_ID", ""),
		KMSAWSRegion:       getEnv("KMS_AWS_REGION", ""),
		KMSVaultAddress:    getEnv("KMS_VAULT_ADDRESS", ""),
		KMSVaultToken:      getEnv("KMS_VAULT_TOKEN", ""),
		KMSVaultTransitKey: getEnv("KMS_VAULT_TRANSIT_KEY", ""),
		AdminKeyHex:        getEnv("ADMIN_KEY_HEX", ""),
		AdminKeyCiphertext: getEnv("ADMIN_KEY_CIPHERTEXT", ""),
		DevWalletSeed:      getEnv("DEV_WALLET_SEED", "station-dev-seed"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		Port:               getEnvInt("PORT", 8000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !c.Environment.Valid() {
		return fmt.Errorf("ENVIRONMENT must be development, test or production, got: %s", c.Environment)
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}

	if c.RPCURL == "" {
		return fmt.Errorf("RPC_URL is required")
	}

	switch c.KMSProvider {
	case "local":
		if c.KMSLocalMasterKey == "" {
			return fmt.Errorf("KMS_LOCAL_MASTER_KEY is required when KMS_PROVIDER is 'local'")
		}
	case "aws-kms":
		if c.KMSAWSKeyID == "" || c.KMSAWSRegion == "" {
			return fmt.Errorf("KMS_AWS_KEY_ID and KMS_AWS_REGION are required when KMS_PROVIDER is 'aws-kms'")
		}
	case "vault":
		if c.KMSVaultAddress == "" || c.KMSVaultToken == "" || c.KMSVaultTransitKey == "" {
			return fmt.Errorf("KMS_VAULT_ADDRESS, KMS_VAULT_TOKEN and KMS_VAULT_TRANSIT_KEY are required when KMS_PROVIDER is 'vault'")
		}
	default:
		return fmt.Errorf("KMS_PROVIDER must be 'local', 'aws-kms' or 'vault', got: %s", c.KMSProvider)
	}

	if c.Environment == types.EnvDevelopment {
		if c.AdminKeyHex == "" {
			return fmt.Errorf("ADMIN_KEY_HEX is required in development")
		}
	} else {
		if c.AdminKeyCiphertext == "" {
			return fmt.Errorf("ADMIN_KEY_CIPHERTEXT is required outside development")
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required outside development")
		}
	}

	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
