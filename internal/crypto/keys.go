package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"
)

// GenerateKey generates a new Ethereum private key from the system CSPRNG.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return privateKey, nil
}

// GenerateDevKey derives a private key deterministically from a seed and a
// user id via HKDF. Only for the development environment, where reproducible
// accounts make local chains easier to work with. The counter in the info
// string skips the rare candidates that fall outside the curve order.
func GenerateDevKey(seed, userID string) (*ecdsa.PrivateKey, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	for counter := 0; counter < 128; counter++ {
		info := fmt.Sprintf("station-dev-wallet:%s:%d", userID, counter)
		r := hkdf.New(sha256.New, []byte(seed), nil, []byte(info))

		candidate := make([]byte, 32)
		if _, err := io.ReadFull(r, candidate); err != nil {
			return nil, fmt.Errorf("failed to derive key material: %w", err)
		}

		key, err := crypto.ToECDSA(candidate)
		if err == nil {
			return key, nil
		}
	}

	return nil, fmt.Errorf("failed to derive a valid key for user %s", userID)
}

// Address derives the Ethereum address from a private key.
func Address(privateKey *ecdsa.PrivateKey) common.Address {
	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		panic("failed to cast public key to ECDSA")
	}
	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// LowercaseAddress derives the address and lowercase-normalizes it, matching
// the form stored in wallet documents.
func LowercaseAddress(privateKey *ecdsa.PrivateKey) string {
	return strings.ToLower(Address(privateKey).Hex())
}

// KeyToHex encodes a private key as a bare hex string.
func KeyToHex(privateKey *ecdsa.PrivateKey) string {
	return hex.EncodeToString(crypto.FromECDSA(privateKey))
}

// KeyFromHex decodes a private key from a hex string, tolerating a 0x prefix.
func KeyFromHex(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(s, "0x")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	return key, nil
}
