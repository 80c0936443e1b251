package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/avast/retry-go/v4"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/log"
)

const (
	DefaultConfirmAttempts uint = 50
	DefaultConfirmDelay         = 2 * time.Second
)

// Confirmer polls for a broadcast transaction until it is included.
type Confirmer struct {
	chainID  string
	attempts uint
	delay    time.Duration

	client  rpc.NodeClient
	metrics *Metrics
	logger  *log.Logger
}

func NewConfirmer(chainID string, client rpc.NodeClient, attempts uint, delay time.Duration, metrics *Metrics, logger *log.Logger) *Confirmer {
	if metrics == nil {
		metrics = NopMetrics()
	}
	// retry-go treats zero attempts as unbounded.
	if attempts == 0 {
		attempts = DefaultConfirmAttempts
	}

	return &Confirmer{
		chainID:  chainID,
		attempts: attempts,
		delay:    delay,

		client:  client,
		metrics: metrics,
		logger:  logger.ApplyPrefix("🔎 "),
	}
}

// WaitForInclusion polls GetTx while the node answers "not found". Any other error stops polling.
// Running out of attempts returns ErrConfirmationTimeout: the transaction may still land later.
// Calling it again for an included hash returns the same result.
func (c *Confirmer) WaitForInclusion(ctx context.Context, hash string) (*TxResult, error) {
	logger := c.logger.With("tx_hash", hash)
	logger.Info("polling for inclusion", "max_attempts", c.attempts)

	start := time.Now()
	var response *TxResult
	err := retry.Do(func() error {
		txResponse, err := c.client.GetTx(ctx, hash)
		if err != nil {
			return err
		}
		response = NewTxResult(txResponse)
		return nil
	},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(rpc.IsNotFound),
		retry.OnRetry(func(attempt uint, _ error) {
			logger.Debug("transaction not included yet", "attempt", attempt+1, "max_attempts", c.attempts)
		}),
	)
	if err != nil {
		switch {
		case rpc.IsNotFound(err):
			logger.Error("transaction not found after exhausting polling attempts")
			return nil, errorsmod.Wrapf(ErrConfirmationTimeout, "tx %s after %d polls", hash, c.attempts)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%w: tx %s: %w", ErrConfirmationTimeout, hash, err)
		default:
			return nil, err
		}
	}

	c.metrics.observeConfirmation(c.chainID, time.Since(start))
	logger.Info("transaction included", "height", response.Height, "code", response.Code, "gas_used", response.GasUsed)
	return response, nil
}
