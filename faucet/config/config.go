package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/pushchain/svm-faucet/faucet/amount"
	"github.com/pushchain/svm-faucet/faucet/constant"
	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
	"github.com/pushchain/svm-faucet/faucet/svm"
)

//go:embed default_config.json
var defaultConfigJSON []byte

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	// Set defaults for the HTTP server
	if cfg.RPCBind == "" {
		cfg.RPCBind = "0.0.0.0"
	}
	if cfg.RPCPort == 0 {
		cfg.RPCPort = 3333
	}
	if cfg.RPCPort < 0 || cfg.RPCPort > 65535 {
		return fmt.Errorf("rpc port must be between 1 and 65535")
	}

	if cfg.BlockingWorkers == 0 {
		cfg.BlockingWorkers = 16
	}
	if cfg.BlockingWorkers < 0 {
		return fmt.Errorf("blocking workers must be positive")
	}

	if !cfg.Solana.Enabled {
		return nil
	}

	return validateSolana(&cfg.Solana)
}

func validateSolana(sc *SolanaConfig) error {
	if len(sc.URLs) == 0 {
		return fmt.Errorf("solana urls must not be empty")
	}

	if sc.Commitment == "" {
		sc.Commitment = "finalized"
	}
	if _, err := svm.ParseCommitment(sc.Commitment); err != nil {
		return err
	}

	if sc.Protocol == "" {
		sc.Protocol = string(svm.ProtocolCurrent)
	}
	if _, err := svm.ParseProtocol(sc.Protocol); err != nil {
		return err
	}

	if _, _, err := sc.ProgramIDs(); err != nil {
		return err
	}

	if _, err := amount.Factor(sc.TokenMintDecimals); err != nil {
		return fmt.Errorf("token mint decimals %d: %w", sc.TokenMintDecimals, err)
	}

	if sc.OperatorKey == "" && sc.OperatorKeyfile == "" {
		return fmt.Errorf("either operator_key or operator_keyfile must be set")
	}

	if heap := sc.ComputeBudget.HeapSize; heap != 0 {
		if heap%1024 != 0 || heap < svm.MinHeapFrameBytes || heap > svm.MaxHeapFrameBytes {
			return fmt.Errorf("heap size must be a multiple of 1024 between %d and %d", svm.MinHeapFrameBytes, svm.MaxHeapFrameBytes)
		}
	}

	if sc.ConfirmPollIntervalMs == 0 {
		sc.ConfirmPollIntervalMs = 500
	}
	if sc.ConfirmPollIntervalMs < 0 {
		return fmt.Errorf("confirm poll interval must be positive")
	}

	return nil
}

// EnvName returns the environment variable overriding a config key
func EnvName(key string) string {
	return constant.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// newViper layers <BasePath>/config/faucet_config.json, when present, and
// the FAUCET_* environment over the embedded defaults.
func newViper(basePath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaultConfigJSON)); err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}

	if basePath != "" {
		configFile := filepath.Join(basePath, constant.ConfigSubdir, constant.ConfigFileName)
		if _, err := os.Stat(configFile); err == nil {
			v.SetConfigFile(configFile)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to merge config file %s: %w", configFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
	}

	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key, EnvName(key)); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return v, nil
}

// Read returns the merged configuration without validating it
func Read(basePath string) (Config, error) {
	v, err := newViper(basePath)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Load reads the merged configuration and validates it
func Load(basePath string) (Config, error) {
	cfg, err := Read(basePath)
	if err != nil {
		return Config{}, ferrors.NewConfigError("", "failed to load config", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, ferrors.NewConfigError("", "invalid config", err)
	}
	return cfg, nil
}

// Save writes the given config to <BasePath>/config/faucet_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, constant.ConfigSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, constant.ConfigFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadDefaultConfig loads the default configuration from embedded JSON
func LoadDefaultConfig() (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default config: %w", err)
	}
	return &cfg, nil
}

// EnvVar is one supported environment variable and its effective value
type EnvVar struct {
	Name  string
	Key   string
	Value string
}

// EnvVars lists every environment variable the config honours, sorted by config key
func EnvVars(basePath string) ([]EnvVar, error) {
	v, err := newViper(basePath)
	if err != nil {
		return nil, err
	}

	keys := v.AllKeys()
	sort.Strings(keys)

	vars := make([]EnvVar, 0, len(keys))
	for _, key := range keys {
		value := formatValue(v.Get(key))
		if key == "solana.operator_key" && value != "" {
			value = "<redacted>"
		}
		vars = append(vars, EnvVar{Name: EnvName(key), Key: key, Value: value})
	}
	return vars, nil
}

func formatValue(value interface{}) string {
	switch val := value.(type) {
	case nil:
		return ""
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(val, ",")
	case float64:
		// JSON numbers decode as float64
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
