package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/svm-faucet/faucet/airdrop"
	"github.com/pushchain/svm-faucet/faucet/config"
	"github.com/pushchain/svm-faucet/faucet/constant"
	ferrors "github.com/pushchain/svm-faucet/faucet/errors"
	"github.com/pushchain/svm-faucet/faucet/svm"
	"github.com/pushchain/svm-faucet/faucet/workpool"
)

// newAirdropService wires the ledger client, worker pool, builder and
// submitter behind the airdrop service.
func newAirdropService(cfg config.Config, home string, log zerolog.Logger) (*airdrop.Service, error) {
	sc := cfg.Solana
	if !sc.Enabled {
		return nil, fmt.Errorf("solana is disabled in the config, nothing to serve")
	}

	protocol, err := svm.ParseProtocol(sc.Protocol)
	if err != nil {
		return nil, err
	}
	scheme, err := svm.SchemeFor(protocol)
	if err != nil {
		return nil, err
	}

	evmLoader, mint, err := sc.ProgramIDs()
	if err != nil {
		return nil, err
	}

	commitment, err := svm.ParseCommitment(sc.Commitment)
	if err != nil {
		return nil, err
	}

	operator, err := svm.LoadOperatorKey(sc.OperatorKey, resolveKeyfile(home, sc.OperatorKeyfile))
	if err != nil {
		return nil, ferrors.Wrap(err, "failed to load operator key")
	}

	rpcClient, err := svm.NewRPCClient(sc.URLs, commitment, time.Duration(sc.ConfirmPollIntervalMs)*time.Millisecond, log)
	if err != nil {
		return nil, err
	}

	pool := workpool.New(cfg.BlockingWorkers, log)
	ledger := svm.NewPooledLedger(rpcClient, pool)

	builder, err := svm.NewInstructionBuilder(svm.BuilderConfig{
		Scheme:      scheme,
		EVMLoader:   evmLoader,
		TokenMint:   mint,
		ChainID:     sc.ChainID,
		SeedVersion: sc.AccountSeedVersion,
		ComputeBudget: svm.ComputeBudget{
			HeapSize:  sc.ComputeBudget.HeapSize,
			UnitLimit: sc.ComputeBudget.UnitLimit,
			UnitPrice: sc.ComputeBudget.UnitPrice,
		},
	}, ledger, log)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("protocol", string(scheme.Protocol)).
		Str("operator", operator.PublicKey().String()).
		Strs("urls", sc.URLs).
		Str("commitment", string(rpcClient.Commitment())).
		Int("blocking_workers", pool.Size()).
		Msg("airdrop pipeline ready")

	return airdrop.NewService(airdrop.Config{
		MaxAmount: sc.MaxAmount,
		Decimals:  sc.TokenMintDecimals,
		TokenMint: mint,
	}, builder, svm.NewSubmitter(ledger, log), ledger, operator, log)
}

// resolveKeyfile treats relative key file paths as relative to <home>/keys
func resolveKeyfile(home, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(home, constant.KeysSubdir, path)
}
