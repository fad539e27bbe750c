package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushchain/svm-faucet/faucet/config"
	"github.com/pushchain/svm-faucet/faucet/constant"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, "init", "--home", home)
	require.NoError(t, err)
	assert.Contains(t, out, "config written to")

	cfg, err := config.Load(home)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, constant.KeysSubdir, "operator.json"), cfg.Solana.OperatorKeyfile)

	_, err = execute(t, "init", "--home", home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--home", home, "--force")
	require.NoError(t, err)
}

func TestConfigCommandRedactsKey(t *testing.T) {
	t.Setenv("FAUCET_SOLANA_OPERATOR_KEY", "super-secret")

	out, err := execute(t, "config", "--home", t.TempDir())
	require.NoError(t, err)
	assert.NotContains(t, out, "super-secret")

	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "<redacted>", cfg.Solana.OperatorKey)
	assert.Equal(t, 3333, cfg.RPCPort)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("FAUCET_RPC_PORT", "4000")

	out, err := execute(t, "env", "--home", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "FAUCET_RPC_PORT=4000")
	assert.Contains(t, lines, "FAUCET_SOLANA_PROTOCOL=current")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:       faucetd")
	assert.Contains(t, out, "Revision:")
}

func TestStartFailsOnInvalidConfig(t *testing.T) {
	// no operator key material configured
	_, err := execute(t, "start", "--home", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operator_key")
}
