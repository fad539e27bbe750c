package api

import (
	"context"

	"github.com/pushchain/svm-faucet/faucet/airdrop"
)

// Airdropper defines the airdrop pipeline the API server drives
type Airdropper interface {
	Airdrop(ctx context.Context, reqID string, req airdrop.Request) error
}
