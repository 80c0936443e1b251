package rpc

import (
	"context"
	"strings"
	"time"

	errorsmod "cosmossdk.io/errors"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

//go:generate moq -pkg mock -out ./mock/node_client.go . NodeClient

const codespace = "conveyor"

var (
	ErrUnknownAccountType = errorsmod.Register(codespace, 10, "unknown account type")
	ErrEmptyResponse      = errorsmod.Register(codespace, 11, "node returned an empty response")
)

// NodeClient is the node surface the submission pipeline consumes.
type NodeClient interface {
	// Simulate dry-runs signed tx bytes and returns the gas used.
	Simulate(ctx context.Context, txBytes []byte) (uint64, error)
	// BroadcastTx submits tx bytes. A non-zero code in the response is a CheckTx rejection.
	BroadcastTx(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error)
	// GetTx looks up an included transaction. Unknown hashes return an error for which IsNotFound holds.
	GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error)
	// GetAccount returns the base account behind any supported account wrapper.
	GetAccount(ctx context.Context, address string) (*authtypes.BaseAccount, error)

	GetLatestBlock(ctx context.Context) (*BlockInfo, error)
	GetBlockByHeight(ctx context.Context, height int64) (*BlockInfo, error)
	GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error)
	// NodeNetwork is the chain id the node reports.
	NodeNetwork(ctx context.Context) (string, error)
	ContractCode(ctx context.Context, codeID uint64) (*wasmtypes.CodeInfoResponse, error)
	// SmartQuery runs a JSON query against a contract and returns the raw JSON answer.
	SmartQuery(ctx context.Context, contract string, query []byte) ([]byte, error)
}

// BlockInfo is the subset of a block header the pipeline needs.
type BlockInfo struct {
	Height  int64
	Time    time.Time
	ChainID string
}

// IsNotFound reports whether err is a node's answer that an entity does not exist yet.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.NotFound:
			return true
		case codes.Unknown, codes.InvalidArgument:
			return strings.Contains(strings.ToLower(s.Message()), "not found")
		default:
			return false
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
