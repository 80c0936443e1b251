package rpc_test

import (
	"context"
	"testing"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/cosmos/rpc/mock"
	"github.com/tessellated-io/conveyor/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var unavailable = status.Error(codes.Unavailable, "connection refused")

func failingClient() *mock.NodeClientMock {
	return &mock.NodeClientMock{
		GetLatestBlockFunc: func(context.Context) (*rpc.BlockInfo, error) {
			return nil, unavailable
		},
		GetBalanceFunc: func(context.Context, string, string) (*sdk.Coin, error) {
			return nil, unavailable
		},
		GetBlockByHeightFunc: func(context.Context, int64) (*rpc.BlockInfo, error) {
			return nil, unavailable
		},
		ContractCodeFunc: func(_ context.Context, codeID uint64) (*wasmtypes.CodeInfoResponse, error) {
			return nil, status.Errorf(codes.NotFound, "code %d not found", codeID)
		},
	}
}

func TestRetryableClient_SubmissionQueriesPassThrough(t *testing.T) {
	wrapped := failingClient()
	client := rpc.NewRetryableRpcClient(3, time.Millisecond, wrapped, log.Discard())

	_, err := client.GetLatestBlock(context.Background())
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Len(t, wrapped.GetLatestBlockCalls(), 1)

	_, err = client.GetBalance(context.Background(), "wasm1payer", "ustake")
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Len(t, wrapped.GetBalanceCalls(), 1)
}

func TestRetryableClient_RetriesOtherQueries(t *testing.T) {
	wrapped := failingClient()
	client := rpc.NewRetryableRpcClient(3, time.Millisecond, wrapped, log.Discard())

	_, err := client.GetBlockByHeight(context.Background(), 10)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Len(t, wrapped.GetBlockByHeightCalls(), 3)

	_, err = client.ContractCode(context.Background(), 7)
	assert.True(t, rpc.IsNotFound(err))
	assert.Len(t, wrapped.ContractCodeCalls(), 1)
}
