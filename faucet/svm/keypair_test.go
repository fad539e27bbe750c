package svm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOperatorKeyFromBase58(t *testing.T) {
	wallet := solana.NewWallet()

	key, err := LoadOperatorKey(wallet.PrivateKey.String(), "")
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey(), key.PublicKey())
}

func TestLoadOperatorKeyFromKeygenFile(t *testing.T) {
	wallet := solana.NewWallet()

	ints := make([]int, len(wallet.PrivateKey))
	for i, b := range wallet.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "operator.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	key, err := LoadOperatorKey("", path)
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey(), key.PublicKey())
}

func TestLoadOperatorKeyErrors(t *testing.T) {
	_, err := LoadOperatorKey("", "")
	assert.Error(t, err)

	_, err = LoadOperatorKey("not-base58-0OIl", "")
	assert.Error(t, err)

	_, err = LoadOperatorKey("", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "short.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2,3]"), 0o600))
	_, err = LoadOperatorKey("", path)
	assert.Error(t, err)
}
