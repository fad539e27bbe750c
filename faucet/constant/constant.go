package constant

import "os"

// <NodeDir>/                    (e.g., /home/faucet/.faucet)
// └── config/
//	└── faucet_config.json
// └── keys/
//	└── operator.json

const (
	NodeDir = ".faucet"

	ConfigSubdir   = "config"
	ConfigFileName = "faucet_config.json"

	KeysSubdir = "keys"

	// EnvPrefix prefixes every environment variable that overrides a config key
	EnvPrefix = "FAUCET"
)

var DefaultNodeHome = os.ExpandEnv("$HOME/") + NodeDir
