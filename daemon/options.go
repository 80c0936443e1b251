package daemon

import (
	"time"

	"github.com/tessellated-io/conveyor/config"
	"github.com/tessellated-io/conveyor/cosmos/tx"
	"github.com/tessellated-io/conveyor/log"
)

// DefaultCodeWaitBlocks is how many blocks Upload waits for new code to become queryable.
const DefaultCodeWaitBlocks uint64 = 10

type Option func(*options)

type options struct {
	gas             tx.GasConfig
	broadcasterOpts []tx.BroadcasterOption
	confirmAttempts uint
	confirmDelay    time.Duration
	minBlockTime    time.Duration
	codeWaitBlocks  uint64
	metrics         *tx.Metrics
	logger          *log.Logger
}

func defaultOptions() *options {
	return &options{
		confirmAttempts: tx.DefaultConfirmAttempts,
		confirmDelay:    tx.DefaultConfirmDelay,
		minBlockTime:    tx.DefaultMinBlockTime,
		codeWaitBlocks:  DefaultCodeWaitBlocks,
		metrics:         tx.NopMetrics(),
		logger:          log.Default(),
	}
}

// WithGasConfig replaces the gas and balance settings.
func WithGasConfig(gas tx.GasConfig) Option {
	return func(o *options) {
		o.gas = gas
	}
}

// WithToggles applies the environment toggles to the gas settings, keeping any prompt streams.
func WithToggles(toggles *config.Toggles) Option {
	return func(o *options) {
		o.gas.GasBuffer = toggles.GasBuffer
		o.gas.MinGas = toggles.MinGas
		o.gas.DisableBalanceAssertion = toggles.DisableBalanceAssertion
		o.gas.DisableManualInteraction = toggles.DisableManualInteraction
	}
}

func WithBroadcasterOptions(opts ...tx.BroadcasterOption) Option {
	return func(o *options) {
		o.broadcasterOpts = append(o.broadcasterOpts, opts...)
	}
}

// WithConfirmation sets how often and how long inclusion is polled for.
func WithConfirmation(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.confirmAttempts = attempts
		o.confirmDelay = delay
	}
}

func WithMinBlockTime(minBlockTime time.Duration) Option {
	return func(o *options) {
		o.minBlockTime = minBlockTime
	}
}

// WithCodeWait bounds how many blocks Upload waits for the node to serve uploaded code.
func WithCodeWait(blocks uint64) Option {
	return func(o *options) {
		o.codeWaitBlocks = blocks
	}
}

func WithMetrics(metrics *tx.Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
