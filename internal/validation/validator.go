package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// EthereumAddressPattern is the regex pattern for Ethereum addresses
var EthereumAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// StationNamePattern constrains the local format of station names. The
// authoritative uniqueness/validity check is always the on-chain validateName
// call; this only rejects obvious garbage before spending an RPC round trip.
var StationNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,31}$`)

// ValidateEthereumAddress validates an Ethereum address format
func ValidateEthereumAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if !EthereumAddressPattern.MatchString(address) {
		return fmt.Errorf("invalid Ethereum address format: must be 0x followed by 40 hex characters")
	}

	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid Ethereum address")
	}

	// Prevent sending to zero address (common mistake)
	if strings.ToLower(address) == "0x0000000000000000000000000000000000000000" {
		return fmt.Errorf("cannot send to zero address")
	}

	return nil
}

// ValidateStationName checks the local format of an already-lowercased name.
func ValidateStationName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if !StationNamePattern.MatchString(name) {
		return fmt.Errorf("invalid station name: 3-32 chars, lowercase letters, digits, '-' or '_', must start alphanumeric")
	}

	return nil
}

// ValidateQuantity checks a tip quantity.
func ValidateQuantity(qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	return nil
}
