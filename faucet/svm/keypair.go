package svm

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// LoadOperatorKey loads the operator keypair from a base58 secret key or,
// when that is empty, from a solana-keygen JSON file.
func LoadOperatorKey(base58Key, keyFile string) (solana.PrivateKey, error) {
	if key := strings.TrimSpace(base58Key); key != "" {
		pk, err := solana.PrivateKeyFromBase58(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse operator key: %w", err)
		}
		if err := validateKey(pk); err != nil {
			return nil, err
		}
		return pk, nil
	}

	if keyFile == "" {
		return nil, fmt.Errorf("no operator key configured")
	}

	pk, err := solana.PrivateKeyFromSolanaKeygenFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load operator key file %s: %w", keyFile, err)
	}
	if err := validateKey(pk); err != nil {
		return nil, err
	}
	return pk, nil
}

// validateKey checks that the key holds both halves of an ed25519 keypair
func validateKey(pk solana.PrivateKey) error {
	if len(pk) != 64 {
		return fmt.Errorf("invalid operator key length: expected 64 bytes, got %d", len(pk))
	}
	return nil
}
