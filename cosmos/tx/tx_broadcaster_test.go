package tx_test

import (
	"context"
	"sync"
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/authz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/rpc/mock"
	"github.com/tessellated-io/conveyor/cosmos/tx"
	"github.com/tessellated-io/conveyor/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	. "github.com/axelarnetwork/utils/test"
)

const sequenceMismatch = "account sequence mismatch, expected 5, got 4: incorrect account sequence"

func sequenceOf(decoded *mock.DecodedTx) uint64 {
	return decoded.AuthInfo.SignerInfos[0].Sequence
}

func TestBroadcaster(t *testing.T) {
	var (
		h    *harness
		hash string
		err  error
	)

	broadcast := func() {
		hash, err = h.broadcaster.SignAndBroadcast(context.Background(), h.send(10), "memo")
	}

	rebuildWith := func(opts ...tx.BroadcasterOption) {
		h.broadcaster = tx.NewBroadcaster(h.chain, h.signer, h.node, h.estimator, log.Discard(), opts...)
	}

	Given("a funded signer on a node at height 40 simulating 150000 gas", func() {
		h = newHarness(t)
		h.node.GasUsed = 150_000
	}).Branch(
		When("the node accepts the first submission", broadcast).
			Then("the transaction is built from fresh chain state", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 1)
				submitted := broadcasts[0]

				assert.Equal(t, submitted.Hash, hash)
				assert.Equal(t, uint64(210_000), submitted.AuthInfo.Fee.GasLimit)
				assert.Equal(t, "5252ustake", submitted.AuthInfo.Fee.Amount.String())
				assert.Equal(t, uint64(50), submitted.Body.TimeoutHeight)
				assert.Equal(t, "memo", submitted.Body.Memo)
				assert.Equal(t, txtypes.BroadcastMode_BROADCAST_MODE_SYNC, submitted.Mode)
				assert.Equal(t, testSequence, sequenceOf(submitted))
			}).
			Then("the sequence has advanced locally and on the node", func(t *testing.T) {
				account, err := h.broadcaster.Accounts().Current(context.Background())
				require.NoError(t, err)
				assert.Equal(t, testSequence+1, account.Sequence)
				assert.Equal(t, testSequence+1, h.node.Sequence(h.address))
			}),

		When("the node rejects three submissions with a sequence mismatch", func() {
			h.node.Rejections = []*sdk.TxResponse{
				rejectionResponse(32, sequenceMismatch),
				rejectionResponse(32, sequenceMismatch),
				rejectionResponse(32, sequenceMismatch),
			}
			broadcast()
		}).
			Then("the fourth submission is accepted", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 4)
				assert.Equal(t, broadcasts[3].Hash, hash)
				for _, submitted := range broadcasts {
					assert.Equal(t, testSequence, sequenceOf(submitted))
				}
			}),

		When("sequence mismatches outlast the ceiling", func() {
			rebuildWith(tx.WithStrategies(tx.AccountSequenceStrategy(2)))
			h.node.Rejections = []*sdk.TxResponse{
				rejectionResponse(32, sequenceMismatch),
				rejectionResponse(32, sequenceMismatch),
				rejectionResponse(32, sequenceMismatch),
			}
			broadcast()
		}).
			Then("retries are exhausted with the last rejection attached", func(t *testing.T) {
				assert.ErrorIs(t, err, tx.ErrRetriesExhausted)

				var rejection *tx.RejectedError
				require.ErrorAs(t, err, &rejection)
				assert.Equal(t, uint32(32), rejection.Code)
				assert.Len(t, h.node.Broadcasts(), 3)
			}),

		When("the node rejects the fee and names the minimum", func() {
			h.node.Rejections = []*sdk.TxResponse{
				rejectionResponse(13, "insufficient fees; got: 5252ustake required: 9000ustake: insufficient fee"),
			}
			broadcast()
		}).
			Then("the resubmission pays the minimum", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 2)
				assert.Equal(t, "9000ustake", broadcasts[1].AuthInfo.Fee.Amount.String())
				assert.Equal(t, uint64(210_000), broadcasts[1].AuthInfo.Fee.GasLimit)
			}),

		When("the node rejects the fee without naming a minimum", func() {
			h.node.Rejections = []*sdk.TxResponse{rejectionResponse(13, "insufficient fee")}
			broadcast()
		}).
			Then("the resubmission bumps gas", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 2)
				assert.Equal(t, uint64(252_000), broadcasts[1].AuthInfo.Fee.GasLimit)
				assert.Equal(t, "6302ustake", broadcasts[1].AuthInfo.Fee.Amount.String())
			}),

		When("the node rejects the fee twice", func() {
			h.node.Rejections = []*sdk.TxResponse{
				rejectionResponse(13, "insufficient fee"),
				rejectionResponse(13, "insufficient fee"),
			}
			broadcast()
		}).
			Then("the second rejection is terminal", func(t *testing.T) {
				assert.ErrorIs(t, err, tx.ErrRetriesExhausted)
				assert.Len(t, h.node.Broadcasts(), 2)
			}),

		When("the node rejects for a reason no strategy handles", func() {
			h.node.Rejections = []*sdk.TxResponse{rejectionResponse(5, "0ustake is smaller than 10ustake: insufficient funds")}
			broadcast()
		}).
			Then("the rejection is returned as is", func(t *testing.T) {
				var rejection *tx.RejectedError
				require.ErrorAs(t, err, &rejection)
				assert.Equal(t, uint32(5), rejection.Code)
				assert.Equal(t, "sdk", rejection.Codespace)
				assert.NotErrorIs(t, err, tx.ErrRetriesExhausted)
				assert.Len(t, h.node.Broadcasts(), 1)
			}).
			Then("the unused sequence is rewound", func(t *testing.T) {
				account, err := h.broadcaster.Accounts().Current(context.Background())
				require.NoError(t, err)
				assert.Equal(t, testSequence, account.Sequence)
			}),

		When("the chain passes the timeout height before the first submission lands", func() {
			h.node.BeforeBroadcast = func(n int) {
				if n == 1 {
					h.node.AdvanceHeight(20)
				}
			}
			broadcast()
		}).
			Then("the transaction is rebuilt with a fresh timeout height", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 2)
				assert.Equal(t, uint64(50), broadcasts[0].Body.TimeoutHeight)
				assert.Equal(t, uint64(70), broadcasts[1].Body.TimeoutHeight)
				assert.Equal(t, broadcasts[1].Hash, hash)
			}),

		When("an authz granter is configured", func() {
			h.broadcaster.SetAuthzGranter("wasm1granter")
			broadcast()
		}).
			Then("messages are executed through a single MsgExec signed by the grantee", func(t *testing.T) {
				require.NoError(t, err)
				assert.Equal(t, "wasm1granter", h.broadcaster.Sender())

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 1)
				require.Len(t, broadcasts[0].Body.Messages, 1)
				assert.Equal(t, "/cosmos.authz.v1beta1.MsgExec", broadcasts[0].Body.Messages[0].TypeUrl)

				exec := &authz.MsgExec{}
				require.NoError(t, exec.Unmarshal(broadcasts[0].Body.Messages[0].Value))
				assert.Equal(t, h.address, exec.Grantee)
				assert.Len(t, exec.Msgs, 1)
			}),

		When("a fee granter pays for an empty account", func() {
			h.node.SetBalance(h.address)
			h.broadcaster.SetFeeGranter("wasm1feegranter")
			broadcast()
		}).
			Then("the fee names the granter and the signer balance is not checked", func(t *testing.T) {
				require.NoError(t, err)
				assert.Equal(t, "wasm1feegranter", h.node.Broadcasts()[0].AuthInfo.Fee.Granter)
			}),

		When("the signer cannot pay the fee", func() {
			h.node.SetBalance(h.address, sdk.NewInt64Coin(testDenom, 1))
			broadcast()
		}).
			Then("nothing is submitted", func(t *testing.T) {
				var insufficient *tx.InsufficientBalanceError
				require.ErrorAs(t, err, &insufficient)
				assert.Equal(t, "5252ustake", insufficient.Needed.String())
				assert.Empty(t, h.node.Broadcasts())
			}),

		When("another client used the sequence and simulation notices", func() {
			h.node.SimulateChecksSequence = true
			_, err := h.broadcaster.Accounts().Current(context.Background())
			require.NoError(t, err)
			h.node.SetSequence(h.address, testSequence+1)
			broadcast()
		}).
			Then("the account is refreshed and the transaction uses the new sequence", func(t *testing.T) {
				require.NoError(t, err)

				broadcasts := h.node.Broadcasts()
				require.Len(t, broadcasts, 1)
				assert.Equal(t, testSequence+1, sequenceOf(broadcasts[0]))
				assert.Equal(t, 2, h.node.Simulations())
			}),

		When("there are no messages", func() {
			hash, err = h.broadcaster.SignAndBroadcast(context.Background(), nil, "")
		}).
			Then("nothing is signed", func(t *testing.T) {
				assert.ErrorIs(t, err, tx.ErrNoMessages)
				assert.Zero(t, h.node.Simulations())
			}),

		When("the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			hash, err = h.broadcaster.SignAndBroadcast(ctx, h.send(10), "")
		}).
			Then("the context error is returned", func(t *testing.T) {
				assert.ErrorIs(t, err, context.Canceled)
				assert.Empty(t, h.node.Broadcasts())
			}),
	).Run(t)
}

// unavailableNode fails every broadcast at the transport level.
type unavailableNode struct {
	*mock.ScriptedNode
}

func (n unavailableNode) BroadcastTx(context.Context, []byte, txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	return nil, status.Error(codes.Unavailable, "connection refused")
}

func TestBroadcaster_NodeFaultsAreNotRetried(t *testing.T) {
	h := newHarness(t)
	node := unavailableNode{ScriptedNode: h.node}
	broadcaster := tx.NewBroadcaster(h.chain, h.signer, node, h.estimator, log.Discard())

	_, err := broadcaster.SignAndBroadcast(context.Background(), h.send(10), "")
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))

	// The outcome is unknown, so the next use reloads the sequence from the node.
	h.node.SetSequence(h.address, 11)
	account, err := broadcaster.Accounts().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(11), account.Sequence)
}

func TestBroadcaster_ConcurrentSubmissionsGetDistinctSequences(t *testing.T) {
	h := newHarness(t)

	const submissions = 5
	var wg sync.WaitGroup
	errs := make(chan error, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_, err := h.broadcaster.SignAndBroadcast(context.Background(), h.send(amount), "")
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	broadcasts := h.node.Broadcasts()
	require.Len(t, broadcasts, submissions)
	for i, submitted := range broadcasts {
		assert.Equal(t, testSequence+uint64(i), sequenceOf(submitted))
	}
	assert.Equal(t, testSequence+submissions, h.node.Sequence(h.address))
}

func TestBroadcaster_Simulate(t *testing.T) {
	h := newHarness(t)
	h.node.GasUsed = 150_000

	fee, err := h.broadcaster.Simulate(context.Background(), h.send(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(210_000), fee.GasLimit)
	assert.Equal(t, "5252ustake", fee.Amount.String())
	assert.Empty(t, h.node.Broadcasts())
}

// stalledAccountNode reads the first account query from the node immediately but answers it
// only once released.
type stalledAccountNode struct {
	*mock.ScriptedNode

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (n *stalledAccountNode) GetAccount(ctx context.Context, address string) (*authtypes.BaseAccount, error) {
	account, err := n.ScriptedNode.GetAccount(ctx, address)
	n.once.Do(func() {
		close(n.entered)
		<-n.release
	})
	return account, err
}

func TestBroadcaster_SimulateDoesNotRollBackTheSequence(t *testing.T) {
	h := newHarness(t)
	node := &stalledAccountNode{ScriptedNode: h.node, entered: make(chan struct{}), release: make(chan struct{})}
	broadcaster := tx.NewBroadcaster(h.chain, h.signer, node, h.estimator, log.Discard())

	simulated := make(chan error, 1)
	go func() {
		_, err := broadcaster.Simulate(context.Background(), h.send(1))
		simulated <- err
	}()
	<-node.entered

	submitted := make(chan error, 1)
	go func() {
		_, err := broadcaster.SignAndBroadcast(context.Background(), h.send(2), "")
		submitted <- err
	}()

	// Leave the submission time to overtake the stalled query if nothing holds it back.
	time.Sleep(50 * time.Millisecond)
	close(node.release)
	require.NoError(t, <-simulated)
	require.NoError(t, <-submitted)

	_, err := broadcaster.SignAndBroadcast(context.Background(), h.send(3), "")
	require.NoError(t, err)

	broadcasts := h.node.Broadcasts()
	require.Len(t, broadcasts, 2)
	assert.Equal(t, testSequence, sequenceOf(broadcasts[0]))
	assert.Equal(t, testSequence+1, sequenceOf(broadcasts[1]))

	account, err := broadcaster.Accounts().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSequence+2, account.Sequence)
}

func TestBroadcaster_BroadcastMode(t *testing.T) {
	h := newHarness(t)
	_, err := h.broadcaster.SignAndBroadcast(context.Background(), h.send(1), "")
	require.NoError(t, err)
	assert.Equal(t, txtypes.BroadcastMode_BROADCAST_MODE_SYNC, h.node.Broadcasts()[0].Mode)

	async := newHarness(t, tx.WithBroadcastMode(txtypes.BroadcastMode_BROADCAST_MODE_ASYNC))
	_, err = async.broadcaster.SignAndBroadcast(context.Background(), async.send(1), "")
	require.NoError(t, err)

	broadcasts := async.node.Broadcasts()
	require.Len(t, broadcasts, 1)
	assert.Equal(t, txtypes.BroadcastMode_BROADCAST_MODE_ASYNC, broadcasts[0].Mode)
}

func TestBroadcaster_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	h := newHarness(t, tx.WithMetrics(tx.NewMetrics(registry)))
	h.node.Rejections = []*sdk.TxResponse{rejectionResponse(32, sequenceMismatch)}

	_, err := h.broadcaster.SignAndBroadcast(context.Background(), h.send(10), "")
	require.NoError(t, err)

	assert.Equal(t, 1.0, counterValue(t, registry, "conveyor_tx_broadcasts_total", "outcome", "accepted"))
	assert.Equal(t, 1.0, counterValue(t, registry, "conveyor_tx_broadcasts_total", "outcome", "rejected"))
	assert.Equal(t, 1.0, counterValue(t, registry, "conveyor_tx_retries_total", "strategy", "account_sequence"))
}

func counterValue(t *testing.T, registry *prometheus.Registry, name, label, value string) float64 {
	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
