package utils

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// TranslateAddress re-encodes a bech32 address under another human readable prefix,
// e.g. like1... -> desmos1... or like1... -> likevaloper1....
func TranslateAddress(address, prefix string) (string, error) {
	_, data, err := bech32.Decode(address)
	if err != nil {
		return "", fmt.Errorf("failed to decode bech32 address %q: %w", address, err)
	}
	translated, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", fmt.Errorf("failed to encode address with prefix %q: %w", prefix, err)
	}
	return translated, nil
}

// ValidateAddress checks that address is bech32 with the expected prefix.
func ValidateAddress(address, prefix string) error {
	hrp, _, err := bech32.Decode(address)
	if err != nil {
		return fmt.Errorf("failed to decode bech32 address %q: %w", address, err)
	}
	if prefix != "" && hrp != prefix {
		return fmt.Errorf("address %q has prefix %q, want %q", address, hrp, prefix)
	}
	return nil
}
