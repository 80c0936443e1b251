package tx_test

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/cosmos/rpc/mock"
	"github.com/tessellated-io/conveyor/cosmos/tx"
	"github.com/tessellated-io/conveyor/crypto"
	"github.com/tessellated-io/conveyor/log"
)

const (
	testChainID  = "testing"
	testPrefix   = "wasm"
	testDenom    = "ustake"
	testMnemonic = "enlist hip relief stomach skate base shallow young switch frequent cry park"

	testAccountNumber uint64 = 7
	testSequence      uint64 = 4
	testHeight        int64  = 40
)

func testChain() *chain.Info {
	return &chain.Info{
		ChainID:      testChainID,
		ChainName:    "testing",
		Bech32Prefix: testPrefix,
		CoinType:     118,
		FeeTokens: []chain.FeeToken{
			{Denom: testDenom, FixedMinGasPrice: 0.01, AverageGasPrice: 0.025},
		},
		GrpcURLs: []string{"localhost:9090"},
	}
}

func testSigner(t *testing.T) crypto.Signer {
	signer, err := crypto.NewSignerFromMnemonic(118, testMnemonic, 0, 0)
	require.NoError(t, err)
	return signer
}

// harness wires a full pipeline against a scripted node holding a funded signer account.
type harness struct {
	chain       *chain.Info
	signer      crypto.Signer
	address     string
	node        *mock.ScriptedNode
	estimator   *tx.GasEstimator
	broadcaster *tx.Broadcaster
	confirmer   *tx.Confirmer
}

func newHarness(t *testing.T, opts ...tx.BroadcasterOption) *harness {
	info := testChain()
	signer := testSigner(t)
	address := signer.Address(testPrefix)

	node := mock.NewScriptedNode(testChainID, testPrefix, testHeight)
	node.AddAccount(address, testAccountNumber, testSequence)
	node.SetBalance(address, sdk.NewInt64Coin(testDenom, 1_000_000_000))

	estimator, err := tx.NewGasEstimator(info, node, signer, tx.GasConfig{}, log.Discard())
	require.NoError(t, err)

	return &harness{
		chain:       info,
		signer:      signer,
		address:     address,
		node:        node,
		estimator:   estimator,
		broadcaster: tx.NewBroadcaster(info, signer, node, estimator, log.Discard(), opts...),
		confirmer:   tx.NewConfirmer(testChainID, node, 5, time.Millisecond, nil, log.Discard()),
	}
}

func (h *harness) send(amount int64) []sdk.Msg {
	return []sdk.Msg{&banktypes.MsgSend{
		FromAddress: h.address,
		ToAddress:   h.address,
		Amount:      sdk.NewCoins(sdk.NewInt64Coin(testDenom, amount)),
	}}
}

func rejectionResponse(code uint32, log string) *sdk.TxResponse {
	return &sdk.TxResponse{Codespace: "sdk", Code: code, RawLog: log}
}
