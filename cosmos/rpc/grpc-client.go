package rpc

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client/grpc/tmservice"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/tessellated-io/conveyor/coding"
	"github.com/tessellated-io/conveyor/log"
	"google.golang.org/grpc"
)

// grpcClient is the private and default implementation.
type grpcClient struct {
	authClient authtypes.QueryClient
	bankClient banktypes.QueryClient
	tmClient   tmservice.ServiceClient
	txClient   txtypes.ServiceClient
	wasmClient wasmtypes.QueryClient

	log *log.Logger
}

// Ensure that grpcClient implements NodeClient
var _ NodeClient = (*grpcClient)(nil)

// NewGrpcClient makes a NodeClient over a shared connection. The connection is safe for
// concurrent use and is owned by the caller.
func NewGrpcClient(conn grpc.ClientConnInterface, logger *log.Logger) NodeClient {
	return &grpcClient{
		authClient: authtypes.NewQueryClient(conn),
		bankClient: banktypes.NewQueryClient(conn),
		tmClient:   tmservice.NewServiceClient(conn),
		txClient:   txtypes.NewServiceClient(conn),
		wasmClient: wasmtypes.NewQueryClient(conn),

		log: logger,
	}
}

func (r *grpcClient) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	query := &txtypes.SimulateRequest{
		TxBytes: txBytes,
	}
	simulationResponse, err := r.txClient.Simulate(ctx, query)
	if err != nil {
		return 0, err
	}
	if simulationResponse.GasInfo == nil {
		return 0, errorsmod.Wrap(ErrEmptyResponse, "simulation gas info")
	}

	r.log.Debug("simulated transaction", "tx", coding.PayloadFingerprint(txBytes), "gas_used", simulationResponse.GasInfo.GasUsed)
	return simulationResponse.GasInfo.GasUsed, nil
}

func (r *grpcClient) BroadcastTx(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	query := &txtypes.BroadcastTxRequest{
		Mode:    mode,
		TxBytes: txBytes,
	}

	response, err := r.txClient.BroadcastTx(ctx, query)
	if err != nil {
		return nil, err
	}
	if response.TxResponse == nil {
		return nil, errorsmod.Wrap(ErrEmptyResponse, "broadcast")
	}

	return response.TxResponse, nil
}

func (r *grpcClient) GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error) {
	response, err := r.txClient.GetTx(ctx, &txtypes.GetTxRequest{Hash: hash})
	if err != nil {
		return nil, err
	}
	if response.TxResponse == nil {
		return nil, errorsmod.Wrapf(ErrEmptyResponse, "tx %s", hash)
	}

	return response.TxResponse, nil
}

func (r *grpcClient) GetAccount(ctx context.Context, address string) (*authtypes.BaseAccount, error) {
	query := &authtypes.QueryAccountRequest{Address: address}
	res, err := r.authClient.Account(
		ctx,
		query,
	)
	if err != nil {
		return nil, err
	}

	return UnpackBaseAccount(res.Account)
}

func (r *grpcClient) GetLatestBlock(ctx context.Context) (*BlockInfo, error) {
	response, err := r.tmClient.GetLatestBlock(ctx, &tmservice.GetLatestBlockRequest{})
	if err != nil {
		return nil, err
	}

	// Nodes before v0.47 only populate the deprecated block field.
	if sdkBlock := response.GetSdkBlock(); sdkBlock != nil {
		return &BlockInfo{Height: sdkBlock.Header.Height, Time: sdkBlock.Header.Time, ChainID: sdkBlock.Header.ChainID}, nil
	}
	if block := response.GetBlock(); block != nil {
		return &BlockInfo{Height: block.Header.Height, Time: block.Header.Time, ChainID: block.Header.ChainID}, nil
	}
	return nil, errorsmod.Wrap(ErrEmptyResponse, "latest block")
}

func (r *grpcClient) GetBlockByHeight(ctx context.Context, height int64) (*BlockInfo, error) {
	response, err := r.tmClient.GetBlockByHeight(ctx, &tmservice.GetBlockByHeightRequest{Height: height})
	if err != nil {
		return nil, err
	}

	if sdkBlock := response.GetSdkBlock(); sdkBlock != nil {
		return &BlockInfo{Height: sdkBlock.Header.Height, Time: sdkBlock.Header.Time, ChainID: sdkBlock.Header.ChainID}, nil
	}
	if block := response.GetBlock(); block != nil {
		return &BlockInfo{Height: block.Header.Height, Time: block.Header.Time, ChainID: block.Header.ChainID}, nil
	}
	return nil, errorsmod.Wrapf(ErrEmptyResponse, "block %d", height)
}

func (r *grpcClient) GetBalance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	response, err := r.bankClient.Balance(ctx, &banktypes.QueryBalanceRequest{Address: address, Denom: denom})
	if err != nil {
		return nil, err
	}

	if response.Balance == nil {
		zero := sdk.NewInt64Coin(denom, 0)
		return &zero, nil
	}
	r.log.Debug("retrieved balance", "address", address, "balance", response.Balance.String())

	return response.Balance, nil
}

func (r *grpcClient) NodeNetwork(ctx context.Context) (string, error) {
	response, err := r.tmClient.GetNodeInfo(ctx, &tmservice.GetNodeInfoRequest{})
	if err != nil {
		return "", err
	}
	if response.DefaultNodeInfo == nil {
		return "", errorsmod.Wrap(ErrEmptyResponse, "node info")
	}

	return response.DefaultNodeInfo.Network, nil
}

func (r *grpcClient) ContractCode(ctx context.Context, codeID uint64) (*wasmtypes.CodeInfoResponse, error) {
	response, err := r.wasmClient.Code(ctx, &wasmtypes.QueryCodeRequest{CodeId: codeID})
	if err != nil {
		return nil, err
	}
	if response.CodeInfoResponse == nil {
		return nil, errorsmod.Wrapf(ErrEmptyResponse, "code %d", codeID)
	}

	return response.CodeInfoResponse, nil
}

func (r *grpcClient) SmartQuery(ctx context.Context, contract string, query []byte) ([]byte, error) {
	response, err := r.wasmClient.SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
		Address:   contract,
		QueryData: query,
	})
	if err != nil {
		return nil, err
	}

	return response.Data, nil
}
