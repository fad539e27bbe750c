package main

import (
	"github.com/spf13/cobra"

	"github.com/pushchain/svm-faucet/faucet/constant"
)

const flagHome = "home"

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "faucetd",
		Short:         "SVM test token faucet daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagHome, constant.DefaultNodeHome, "directory holding config/ and keys/")

	InitRootCmd(rootCmd) // add subcommands like `start` and `version`

	return rootCmd
}

func homeDir(cmd *cobra.Command) string {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil || home == "" {
		return constant.DefaultNodeHome
	}
	return home
}
