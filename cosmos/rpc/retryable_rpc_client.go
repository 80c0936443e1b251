package rpc

import (
	"context"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	retry "github.com/avast/retry-go/v4"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/tessellated-io/conveyor/log"
)

// retryableRpcClient retries the queries used outside of submissions and returns the last error.
// Calls the submission pipeline makes pass straight through, it decides on its own what is retried.
type retryableRpcClient struct {
	wrappedClient NodeClient

	attempts retry.Option
	delay    retry.Option

	logger *log.Logger
}

// Ensure that retryableRpcClient implements NodeClient
var _ NodeClient = (*retryableRpcClient)(nil)

// NewRetryableRpcClient returns a new retryableRpcClient
func NewRetryableRpcClient(attempts uint, delay time.Duration, rpcClient NodeClient, logger *log.Logger) NodeClient {
	return &retryableRpcClient{
		wrappedClient: rpcClient,

		attempts: retry.Attempts(attempts),
		delay:    retry.Delay(delay),

		logger: logger,
	}
}

// Pass through

func (r *retryableRpcClient) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	return r.wrappedClient.Simulate(ctx, txBytes)
}

func (r *retryableRpcClient) BroadcastTx(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	return r.wrappedClient.BroadcastTx(ctx, txBytes, mode)
}

func (r *retryableRpcClient) GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error) {
	return r.wrappedClient.GetTx(ctx, hash)
}

func (r *retryableRpcClient) GetAccount(ctx context.Context, address string) (*authtypes.BaseAccount, error) {
	return r.wrappedClient.GetAccount(ctx, address)
}

func (r *retryableRpcClient) GetLatestBlock(ctx context.Context) (*BlockInfo, error) {
	return r.wrappedClient.GetLatestBlock(ctx)
}

func (r *retryableRpcClient) GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	return r.wrappedClient.GetBalance(ctx, address, denom)
}

// Retried

func (r *retryableRpcClient) GetBlockByHeight(ctx context.Context, height int64) (*BlockInfo, error) {
	return withRetries(ctx, r, "block_by_height", func() (*BlockInfo, error) {
		return r.wrappedClient.GetBlockByHeight(ctx, height)
	})
}

func (r *retryableRpcClient) NodeNetwork(ctx context.Context) (string, error) {
	return withRetries(ctx, r, "node_network", func() (string, error) {
		return r.wrappedClient.NodeNetwork(ctx)
	})
}

// ContractCode does not retry "not found", callers poll for new code themselves.
func (r *retryableRpcClient) ContractCode(ctx context.Context, codeID uint64) (*wasmtypes.CodeInfoResponse, error) {
	return withRetries(ctx, r, "contract_code", func() (*wasmtypes.CodeInfoResponse, error) {
		return r.wrappedClient.ContractCode(ctx, codeID)
	})
}

func (r *retryableRpcClient) SmartQuery(ctx context.Context, contract string, query []byte) ([]byte, error) {
	return withRetries(ctx, r, "smart_query", func() ([]byte, error) {
		return r.wrappedClient.SmartQuery(ctx, contract, query)
	})
}

func withRetries[T any](ctx context.Context, r *retryableRpcClient, method string, call func() (T, error)) (T, error) {
	var result T

	err := retry.Do(func() error {
		var err error
		result, err = call()
		if err != nil && !IsNotFound(err) {
			r.logger.Warn("failed call in rpc client, will retry", "error", err.Error(), "method", method)
		}
		return err
	},
		r.delay,
		r.attempts,
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !IsNotFound(err) }),
	)

	return result, err
}
