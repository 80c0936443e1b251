package tx

import (
	"context"
	"time"

	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/log"
)

const (
	// DefaultBlockTimeMultiplier shortens the average so waits poll slightly ahead of block production.
	DefaultBlockTimeMultiplier = 0.9
	DefaultMinBlockTime        = time.Second

	blockTimeWindow int64 = 50
)

// BlockWaiter waits for blocks and wall clock time on one chain.
type BlockWaiter struct {
	minBlockTime time.Duration

	client rpc.NodeClient
	logger *log.Logger
}

// NewBlockWaiter returns a waiter whose block time estimates never go below minBlockTime.
func NewBlockWaiter(client rpc.NodeClient, minBlockTime time.Duration, logger *log.Logger) *BlockWaiter {
	if minBlockTime <= 0 {
		minBlockTime = DefaultMinBlockTime
	}

	return &BlockWaiter{
		minBlockTime: minBlockTime,
		client:       client,
		logger:       logger.ApplyPrefix("⏱️ "),
	}
}

// BlockInfo returns the latest block.
func (w *BlockWaiter) BlockInfo(ctx context.Context) (*rpc.BlockInfo, error) {
	return w.client.GetLatestBlock(ctx)
}

// AverageBlockTime averages the trailing window of up to 50 blocks, scaled by multiplier.
func (w *BlockWaiter) AverageBlockTime(ctx context.Context, multiplier float64) (time.Duration, error) {
	latest, err := w.client.GetLatestBlock(ctx)
	if err != nil {
		return 0, err
	}

	// A chain needs two blocks before there is anything to average.
	for latest.Height <= 1 {
		if err := sleep(ctx, w.minBlockTime); err != nil {
			return 0, err
		}
		if latest, err = w.client.GetLatestBlock(ctx); err != nil {
			return 0, err
		}
	}

	window := latest.Height - 1
	if window > blockTimeWindow {
		window = blockTimeWindow
	}

	oldest, err := w.client.GetBlockByHeight(ctx, latest.Height-window)
	if err != nil {
		return 0, err
	}

	average := latest.Time.Sub(oldest.Time) / time.Duration(window)
	average = time.Duration(float64(average) * multiplier)
	if average < w.minBlockTime {
		average = w.minBlockTime
	}
	return average, nil
}

// WaitBlocks returns once the chain is at least n blocks past its height at the time of the call.
func (w *BlockWaiter) WaitBlocks(ctx context.Context, n uint64) error {
	if n == 0 {
		return nil
	}

	start, err := w.client.GetLatestBlock(ctx)
	if err != nil {
		return err
	}
	target := start.Height + int64(n)

	average, err := w.AverageBlockTime(ctx, DefaultBlockTimeMultiplier)
	if err != nil {
		return err
	}

	w.logger.Debug("waiting for blocks", "blocks", n, "start_height", start.Height, "block_time", average)
	if err := sleep(ctx, average*time.Duration(n)); err != nil {
		return err
	}

	for {
		latest, err := w.client.GetLatestBlock(ctx)
		if err != nil {
			return err
		}
		if latest.Height >= target {
			return nil
		}

		if err := sleep(ctx, average); err != nil {
			return err
		}
	}
}

// NextBlock waits for one block.
func (w *BlockWaiter) NextBlock(ctx context.Context) error {
	return w.WaitBlocks(ctx, 1)
}

// WaitSeconds sleeps for wall clock seconds.
func (w *BlockWaiter) WaitSeconds(ctx context.Context, seconds uint64) error {
	return sleep(ctx, time.Duration(seconds)*time.Second)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
