package tx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/cosmos/util"
	"github.com/tessellated-io/conveyor/crypto"
	"github.com/tessellated-io/conveyor/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc/status"
)

// BroadcasterOption customises a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithStrategies replaces the default retry strategies. Order matters, the first match wins.
func WithStrategies(strategies ...RetryStrategy) BroadcasterOption {
	return func(b *Broadcaster) {
		b.strategies = strategies
	}
}

// WithBroadcastMode changes how long the node holds the broadcast call. The default is SYNC,
// which answers after CheckTx so rejections can be retried.
func WithBroadcastMode(mode txtypes.BroadcastMode) BroadcasterOption {
	return func(b *Broadcaster) {
		b.mode = mode
	}
}

func WithTimeoutHeightOffset(offset uint64) BroadcasterOption {
	return func(b *Broadcaster) {
		b.timeoutHeightOffset = offset
	}
}

func WithMetrics(metrics *Metrics) BroadcasterOption {
	return func(b *Broadcaster) {
		if metrics != nil {
			b.metrics = metrics
		}
	}
}

// Broadcaster signs and submits transactions for one signing identity. Submissions and every read
// of the account cache are serialised so that sequences are handed out in order.
type Broadcaster struct {
	chain   *chain.Info
	signer  crypto.Signer
	address string

	client    rpc.NodeClient
	accounts  *AccountStore
	estimator *GasEstimator
	metrics   *Metrics
	logger    *log.Logger

	strategies          []RetryStrategy
	mode                txtypes.BroadcastMode
	timeoutHeightOffset uint64

	sem *semaphore.Weighted

	grantLock    sync.RWMutex
	authzGranter string
	feeGranter   string
}

func NewBroadcaster(info *chain.Info, signer crypto.Signer, client rpc.NodeClient, estimator *GasEstimator, logger *log.Logger, opts ...BroadcasterOption) *Broadcaster {
	address := signer.Address(info.Bech32Prefix)
	broadcasterLogger := logger.ApplyPrefix("📣 ").With("chain_id", info.ChainID, "signer", address)

	b := &Broadcaster{
		chain:   info,
		signer:  signer,
		address: address,

		client:    client,
		accounts:  NewAccountStore(address, client, logger),
		estimator: estimator,
		metrics:   NopMetrics(),
		logger:    broadcasterLogger,

		strategies:          DefaultStrategies(),
		mode:                txtypes.BroadcastMode_BROADCAST_MODE_SYNC,
		timeoutHeightOffset: DefaultTimeoutHeightOffset,

		sem: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Address is the signer's address on this chain.
func (b *Broadcaster) Address() string {
	return b.address
}

func (b *Broadcaster) Accounts() *AccountStore {
	return b.accounts
}

// SetAuthzGranter makes every following transaction execute through authz on behalf of granter.
// An empty granter switches back to direct execution.
func (b *Broadcaster) SetAuthzGranter(granter string) {
	b.grantLock.Lock()
	defer b.grantLock.Unlock()

	b.authzGranter = granter
}

// SetFeeGranter makes granter pay the fees of every following transaction.
func (b *Broadcaster) SetFeeGranter(granter string) {
	b.grantLock.Lock()
	defer b.grantLock.Unlock()

	b.feeGranter = granter
}

// Sender is the address messages must name as their sender: the authz granter when one is set.
func (b *Broadcaster) Sender() string {
	grants := b.grants()
	if grants.authzGranter != "" {
		return grants.authzGranter
	}
	return b.address
}

type grantConfig struct {
	authzGranter string
	feeGranter   string
}

func (b *Broadcaster) grants() grantConfig {
	b.grantLock.RLock()
	defer b.grantLock.RUnlock()

	return grantConfig{authzGranter: b.authzGranter, feeGranter: b.feeGranter}
}

// SignAndBroadcast submits msgs and returns the hash of the accepted transaction. Acceptance only
// means the transaction passed CheckTx, see Confirmer for inclusion.
func (b *Broadcaster) SignAndBroadcast(ctx context.Context, msgs []sdk.Msg, memo string) (string, error) {
	packed, err := PackMsgs(msgs)
	if err != nil {
		return "", err
	}
	return b.SignAndBroadcastAny(ctx, packed, memo)
}

// SignAndBroadcastAny is SignAndBroadcast for already packed messages.
func (b *Broadcaster) SignAndBroadcastAny(ctx context.Context, msgs []*codectypes.Any, memo string) (string, error) {
	if len(msgs) == 0 {
		return "", ErrNoMessages
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer b.sem.Release(1)

	grants := b.grants()
	envelopes, err := b.envelopes(msgs, grants)
	if err != nil {
		return "", err
	}

	adjust := &adjustments{gasBump: 1}
	retries := make(map[string]int)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		logger := b.logger.With("attempt", attempt)
		hash, rejection, err := b.attempt(ctx, envelopes, memo, grants, adjust, logger)
		if err != nil {
			b.metrics.observeBroadcast(b.chain.ChainID, outcomeFailed)
			return "", err
		}
		if rejection == nil {
			b.metrics.observeBroadcast(b.chain.ChainID, outcomeAccepted)
			logger.Info("transaction accepted", "tx_hash", hash)
			return hash, nil
		}
		b.metrics.observeBroadcast(b.chain.ChainID, outcomeRejected)

		strategy, decision, found := b.decide(rejection)
		if !found {
			logger.Error("transaction rejected", "tx_hash", rejection.TxHash, "code", rejection.Code, "codespace", rejection.Codespace, "error", rejection.RawLog)
			return "", rejection
		}

		retries[strategy.Name]++
		if retries[strategy.Name] > strategy.MaxRetries {
			logger.Error("giving up after repeated rejections", "strategy", strategy.Name, "retries", strategy.MaxRetries, "error", rejection.RawLog)
			return "", fmt.Errorf("%w: %s after %d retries: %w", ErrRetriesExhausted, strategy.Name, strategy.MaxRetries, rejection)
		}

		logger.Warn("transaction rejected, rebuilding", "strategy", strategy.Name, "code", rejection.Code, "codespace", rejection.Codespace, "error", rejection.RawLog)
		b.metrics.observeRetry(b.chain.ChainID, strategy.Name)
		if err := b.apply(ctx, decision, adjust); err != nil {
			return "", err
		}
	}
}

// Simulate returns the gas limit and fee msgs would be signed with, without broadcasting.
func (b *Broadcaster) Simulate(ctx context.Context, msgs []sdk.Msg) (Fee, error) {
	packed, err := PackMsgs(msgs)
	if err != nil {
		return Fee{}, err
	}
	if len(packed) == 0 {
		return Fee{}, ErrNoMessages
	}

	grants := b.grants()
	envelopes, err := b.envelopes(packed, grants)
	if err != nil {
		return Fee{}, err
	}

	// A cold cache is filled here, and the simulated sequence must still be unused.
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return Fee{}, err
	}
	defer b.sem.Release(1)

	account, err := b.accounts.Current(ctx)
	if err != nil {
		return Fee{}, err
	}

	rawGas, err := b.estimator.Estimate(ctx, BuildBody(envelopes, "", 0), account)
	if err != nil {
		return Fee{}, err
	}

	fee, err := b.estimator.Buffer(rawGas)
	if err != nil {
		return Fee{}, err
	}

	if grants.feeGranter == "" {
		if err := b.estimator.AssertBalance(ctx, b.address, fee.Amount); err != nil {
			return Fee{}, err
		}
	}
	return fee, nil
}

// adjustments carry strategy decisions into the following attempts.
type adjustments struct {
	gasBump float64
	minFee  *sdk.Coin
}

func (b *Broadcaster) envelopes(msgs []*codectypes.Any, grants grantConfig) ([]*codectypes.Any, error) {
	if grants.authzGranter == "" {
		return msgs, nil
	}

	exec, err := WrapAuthz(b.address, msgs)
	if err != nil {
		return nil, err
	}
	return []*codectypes.Any{exec}, nil
}

// attempt runs one build, sign and submit round. Rejections are returned separately from errors,
// which are never retried.
func (b *Broadcaster) attempt(ctx context.Context, envelopes []*codectypes.Any, memo string, grants grantConfig, adjust *adjustments, logger *log.Logger) (string, *RejectedError, error) {
	var (
		latest  *rpc.BlockInfo
		account AccountInfo
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		latest, err = b.client.GetLatestBlock(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		account, err = b.accounts.Current(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return "", nil, err
	}

	body := BuildBody(envelopes, memo, TimeoutHeight(latest.Height, b.timeoutHeightOffset))

	rawGas, err := b.estimator.Estimate(ctx, body, account)
	if err != nil {
		if rejection := simulationRejection(err); rejection != nil {
			return "", rejection, nil
		}
		return "", nil, err
	}

	fee, err := b.estimator.BufferWithBump(rawGas, adjust.gasBump)
	if err != nil {
		return "", nil, err
	}
	if adjust.minFee != nil && adjust.minFee.Amount.GT(fee.Amount.Amount) {
		fee.Amount = *adjust.minFee
	}

	if grants.feeGranter == "" {
		if err := b.estimator.AssertBalance(ctx, b.address, fee.Amount); err != nil {
			return "", nil, err
		}
	}

	pubKey, err := PackPublicKey(b.signer.PublicKey(), b.chain.Bech32Prefix)
	if err != nil {
		return "", nil, err
	}
	authInfo := BuildAuthInfo(pubKey, account.Sequence, fee, grants.feeGranter)

	signDoc, err := BuildSignDoc(body, authInfo, b.chain.ChainID, account.AccountNumber)
	if err != nil {
		return "", nil, err
	}
	signed, err := SignTx(b.signer, signDoc)
	if err != nil {
		return "", nil, err
	}

	b.accounts.Advance()
	logger.Debug("broadcasting", "tx_hash", signed.Hash, "sequence", account.Sequence, "fee", fee.String(), "timeout_height", body.TimeoutHeight)

	response, err := b.client.BroadcastTx(ctx, signed.Bytes, b.mode)
	if err != nil {
		// The node may or may not have taken the transaction, so the cached sequence is unknown.
		b.accounts.Invalidate()
		return "", nil, err
	}

	hash := response.TxHash
	if hash == "" {
		hash = signed.Hash
	}

	if response.Code != 0 {
		b.accounts.Rewind(account.Sequence)
		return "", &RejectedError{
			TxHash:    hash,
			Codespace: response.Codespace,
			Code:      response.Code,
			RawLog:    response.RawLog,
		}, nil
	}
	return hash, nil, nil
}

func (b *Broadcaster) decide(rejection *RejectedError) (RetryStrategy, Decision, bool) {
	for _, strategy := range b.strategies {
		if decision, found := strategy.Decide(rejection); found {
			return strategy, decision, true
		}
	}
	return RetryStrategy{}, Decision{}, false
}

func (b *Broadcaster) apply(ctx context.Context, decision Decision, adjust *adjustments) error {
	if decision.RefreshAccount {
		if _, err := b.accounts.Refresh(ctx); err != nil {
			return err
		}
	}

	if decision.GasBump > 0 {
		adjust.gasBump *= decision.GasBump
	}

	if len(decision.RequiredFees) > 0 {
		token, err := b.chain.FeeToken()
		if err != nil {
			return err
		}
		if required, err := util.ExtractCoin(token.Denom, decision.RequiredFees); err == nil {
			adjust.minFee = &sdk.Coin{Denom: token.Denom, Amount: required.Amount}
		} else {
			adjust.gasBump *= insufficientFeeGasBump
		}
	}
	return nil
}

// simulationRejection turns a simulation failure caused by a stale sequence into a rejection so
// the sequence strategy can recover from it. Other simulation failures are errors.
func simulationRejection(err error) *RejectedError {
	message := err.Error()
	if s, ok := status.FromError(err); ok {
		message = s.Message()
	}
	if !isSequenceMismatchLog(message) {
		return nil
	}

	return &RejectedError{
		Codespace: "sdk",
		Code:      32,
		RawLog:    strings.TrimSpace(message),
	}
}
