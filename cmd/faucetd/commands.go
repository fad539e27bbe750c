package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/pushchain/svm-faucet/faucet/api"
	"github.com/pushchain/svm-faucet/faucet/config"
	"github.com/pushchain/svm-faucet/faucet/constant"
	"github.com/pushchain/svm-faucet/faucet/logger"
	"github.com/pushchain/svm-faucet/faucet/metrics"
	"github.com/pushchain/svm-faucet/faucet/version"
)

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(envCmd())
	rootCmd.AddCommand(versionCmd())
}

func startCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the faucet HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := homeDir(cmd)
			cfg, err := config.Load(home)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.BlockingWorkers = workers
			}

			log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogSampler)
			log.Info().Str("version", version.Display()).Str("home", home).Msg("starting faucet")

			metrics.Register(log)

			service, err := newAirdropService(cfg, home, log)
			if err != nil {
				return err
			}

			server := api.NewServer(service, log, cfg.RPCBind, cfg.RPCPort, cfg.AllowedOrigins)
			if err := server.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info().Msg("shutdown signal received")
			return server.Stop()
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "size of the blocking ledger worker pool (overrides blocking_workers)")
	return cmd
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and generate an operator key",
		RunE: func(cmd *cobra.Command, args []string) error {
			home := homeDir(cmd)
			configFile := filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName)
			if _, err := os.Stat(configFile); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configFile)
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}

			keyFile, pubkey, err := writeOperatorKey(home)
			if err != nil {
				return err
			}
			cfg.Solana.OperatorKeyfile = keyFile

			if err := config.Save(cfg, home); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", configFile)
			fmt.Fprintf(cmd.OutOrStdout(), "operator %s (key in %s)\n", pubkey, keyFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")
	return cmd
}

// writeOperatorKey stores a fresh keypair in solana-keygen JSON format under <home>/keys
func writeOperatorKey(home string) (string, solana.PublicKey, error) {
	keysDir := filepath.Join(home, constant.KeysSubdir)
	if err := os.MkdirAll(keysDir, 0o700); err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("failed to create keys directory: %w", err)
	}

	wallet := solana.NewWallet()
	ints := make([]int, len(wallet.PrivateKey))
	for i, b := range wallet.PrivateKey {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("failed to marshal key: %w", err)
	}

	keyFile := filepath.Join(keysDir, "operator.json")
	if err := os.WriteFile(keyFile, data, 0o600); err != nil {
		return "", solana.PublicKey{}, fmt.Errorf("failed to write key file: %w", err)
	}
	return keyFile, wallet.PublicKey(), nil
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Read(homeDir(cmd))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func envCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the supported environment variables and their values",
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := config.EnvVars(homeDir(cmd))
			if err != nil {
				return err
			}
			for _, v := range vars {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", v.Name, v.Value)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print faucetd version info",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:       %s\n", info.Name)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Revision:   %s\n", info.Revision)
			fmt.Fprintf(out, "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "Platform:   %s\n", info.Platform)
		},
	}
}
