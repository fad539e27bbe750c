package config

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type Config struct {
	// Log Config
	LogLevel   int    `json:"log_level" mapstructure:"log_level"`     // e.g., 0 = debug, 1 = info, etc.
	LogFormat  string `json:"log_format" mapstructure:"log_format"`   // "json" or "console"
	LogSampler bool   `json:"log_sampler" mapstructure:"log_sampler"` // if true, samples logs (e.g., 1 in 5)

	// HTTP server
	RPCBind        string   `json:"rpc_bind" mapstructure:"rpc_bind"`               // listen address (default: 0.0.0.0)
	RPCPort        int      `json:"rpc_port" mapstructure:"rpc_port"`               // listen port (default: 3333)
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"` // CORS origins, empty disables CORS

	// BlockingWorkers bounds the ledger calls running at once (default: 16)
	BlockingWorkers int `json:"blocking_workers" mapstructure:"blocking_workers"`

	Solana SolanaConfig `json:"solana" mapstructure:"solana"`
}

// SolanaConfig holds everything needed to deposit tokens through the evm loader
type SolanaConfig struct {
	Enabled    bool     `json:"enabled" mapstructure:"enabled"`
	URLs       []string `json:"urls" mapstructure:"urls"`             // JSON-RPC endpoints, used round-robin
	Commitment string   `json:"commitment" mapstructure:"commitment"` // processed, confirmed or finalized

	EVMLoader         string `json:"evm_loader" mapstructure:"evm_loader"`                   // base58 program id
	TokenMint         string `json:"token_mint" mapstructure:"token_mint"`                   // base58 mint address
	TokenMintDecimals uint8  `json:"token_mint_decimals" mapstructure:"token_mint_decimals"` // default: 9
	ChainID           uint64 `json:"chain_id" mapstructure:"chain_id"`
	MaxAmount         uint64 `json:"max_amount" mapstructure:"max_amount"` // per-request ceiling in whole tokens

	Protocol           string `json:"protocol" mapstructure:"protocol"`                         // legacy, intermediate or current
	AccountSeedVersion uint8  `json:"account_seed_version" mapstructure:"account_seed_version"` // first seed of derived accounts

	OperatorKey     string `json:"operator_key" mapstructure:"operator_key"`         // base58 secret key
	OperatorKeyfile string `json:"operator_keyfile" mapstructure:"operator_keyfile"` // solana-keygen JSON, used when operator_key is empty

	ComputeBudget         ComputeBudgetConfig `json:"compute_budget" mapstructure:"compute_budget"`
	ConfirmPollIntervalMs int                 `json:"confirm_poll_interval_ms" mapstructure:"confirm_poll_interval_ms"` // default: 500
}

// ComputeBudgetConfig holds the compute-budget hints; zero disables a hint
type ComputeBudgetConfig struct {
	HeapSize  uint32 `json:"heap_size" mapstructure:"heap_size"`
	UnitLimit uint32 `json:"unit_limit" mapstructure:"unit_limit"`
	UnitPrice uint64 `json:"unit_price" mapstructure:"unit_price"`
}

// ProgramIDs parses the evm loader and token mint addresses
func (c SolanaConfig) ProgramIDs() (evmLoader, mint solana.PublicKey, err error) {
	evmLoader, err = solana.PublicKeyFromBase58(c.EVMLoader)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("invalid evm_loader %q: %w", c.EVMLoader, err)
	}
	mint, err = solana.PublicKeyFromBase58(c.TokenMint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("invalid token_mint %q: %w", c.TokenMint, err)
	}
	return evmLoader, mint, nil
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	if c.Solana.OperatorKey != "" {
		c.Solana.OperatorKey = "<redacted>"
	}
	c.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	c.Solana.URLs = append([]string(nil), c.Solana.URLs...)
	return c
}
