package daemon

import (
	"context"
	"time"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/cosmos/tx"
	"github.com/tessellated-io/conveyor/crypto"
	"github.com/tessellated-io/conveyor/log"
	"github.com/tessellated-io/conveyor/state"
	"github.com/tessellated-io/conveyor/util"
)

// Daemon submits transactions for one signer on one chain and waits for their inclusion.
// It is safe for concurrent use; submissions are serialised per signer.
type Daemon struct {
	store *state.Store

	estimator   *tx.GasEstimator
	broadcaster *tx.Broadcaster
	confirmer   *tx.Confirmer
	blocks      *tx.BlockWaiter

	codeWaitBlocks uint64

	logger *log.Logger
}

func New(store *state.Store, signer crypto.Signer, opts ...Option) (*Daemon, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	info := store.Info()
	client := store.Client()
	logger := options.logger.With("chain_id", info.ChainID)

	estimator, err := tx.NewGasEstimator(info, client, signer, options.gas, logger)
	if err != nil {
		return nil, err
	}

	broadcasterOpts := append([]tx.BroadcasterOption{tx.WithMetrics(options.metrics)}, options.broadcasterOpts...)

	return &Daemon{
		store: store,

		estimator:   estimator,
		broadcaster: tx.NewBroadcaster(info, signer, client, estimator, logger, broadcasterOpts...),
		confirmer:   tx.NewConfirmer(info.ChainID, client, options.confirmAttempts, options.confirmDelay, options.metrics, logger),
		blocks:      tx.NewBlockWaiter(client, options.minBlockTime, logger),

		codeWaitBlocks: options.codeWaitBlocks,

		logger: logger.ApplyPrefix("🚚 "),
	}, nil
}

// Address is the signer's address.
func (d *Daemon) Address() string {
	return d.broadcaster.Address()
}

// Sender is the address messages are sent from, the authz granter when one is set.
func (d *Daemon) Sender() string {
	return d.broadcaster.Sender()
}

func (d *Daemon) ChainID() string {
	return d.store.ChainID()
}

func (d *Daemon) Store() *state.Store {
	return d.store
}

func (d *Daemon) SetAuthzGranter(granter string) {
	d.broadcaster.SetAuthzGranter(granter)
}

func (d *Daemon) SetFeeGranter(granter string) {
	d.broadcaster.SetFeeGranter(granter)
}

// Commit broadcasts msgs and waits for inclusion. A transaction that was included but failed
// returns its result together with a *tx.RejectedError.
func (d *Daemon) Commit(ctx context.Context, msgs []sdk.Msg, memo string) (*tx.TxResult, error) {
	packed, err := tx.PackMsgs(msgs)
	if err != nil {
		return nil, err
	}
	return d.CommitAny(ctx, packed, memo)
}

// CommitAny is Commit for already packed messages.
func (d *Daemon) CommitAny(ctx context.Context, msgs []*codectypes.Any, memo string) (*tx.TxResult, error) {
	hash, err := d.broadcaster.SignAndBroadcastAny(ctx, msgs, memo)
	if err != nil {
		return nil, err
	}

	result, err := d.confirmer.WaitForInclusion(ctx, hash)
	if err != nil {
		return nil, err
	}
	if err := result.AssertSuccess(); err != nil {
		d.logger.Error("transaction failed", "tx_hash", hash, "height", result.Height, "code", result.Code, "error", result.RawLog)
		return result, err
	}
	return result, nil
}

// Outcome is what CommitAsync resolves to.
type Outcome struct {
	Result *tx.TxResult
	Err    error
}

// CommitAsync runs Commit in a goroutine. The channel receives exactly one Outcome and is then closed.
func (d *Daemon) CommitAsync(ctx context.Context, msgs []sdk.Msg, memo string) <-chan Outcome {
	outcomes := make(chan Outcome, 1)

	go func() {
		var outcome Outcome
		defer func() {
			outcomes <- outcome
			close(outcomes)
		}()
		defer util.RecoverInto(&outcome.Err)

		outcome.Result, outcome.Err = d.Commit(ctx, msgs, memo)
	}()

	return outcomes
}

// Simulate returns the gas limit and fee msgs would be submitted with.
func (d *Daemon) Simulate(ctx context.Context, msgs []sdk.Msg) (tx.Fee, error) {
	return d.broadcaster.Simulate(ctx, msgs)
}

// BankSend transfers coins from the sender to recipient.
func (d *Daemon) BankSend(ctx context.Context, recipient string, coins sdk.Coins) (*tx.TxResult, error) {
	msg := &banktypes.MsgSend{
		FromAddress: d.Sender(),
		ToAddress:   recipient,
		Amount:      coins,
	}

	result, err := d.Commit(ctx, []sdk.Msg{msg}, "")
	if err != nil {
		return result, err
	}
	d.logger.Info("sent funds", "tx_hash", result.Hash, "recipient", recipient, "amount", coins.String())
	return result, nil
}

// Balance returns the balance of address in denom.
func (d *Daemon) Balance(ctx context.Context, address, denom string) (*sdk.Coin, error) {
	return d.store.Client().GetBalance(ctx, address, denom)
}

func (d *Daemon) BlockInfo(ctx context.Context) (*rpc.BlockInfo, error) {
	return d.blocks.BlockInfo(ctx)
}

func (d *Daemon) WaitBlocks(ctx context.Context, n uint64) error {
	return d.blocks.WaitBlocks(ctx, n)
}

func (d *Daemon) NextBlock(ctx context.Context) error {
	return d.blocks.NextBlock(ctx)
}

func (d *Daemon) WaitSeconds(ctx context.Context, seconds uint64) error {
	return d.blocks.WaitSeconds(ctx, seconds)
}

// AverageBlockTime is the recent block time, scaled down slightly so waits poll ahead of blocks.
func (d *Daemon) AverageBlockTime(ctx context.Context) (time.Duration, error) {
	return d.blocks.AverageBlockTime(ctx, tx.DefaultBlockTimeMultiplier)
}
