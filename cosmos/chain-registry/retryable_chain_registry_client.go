package registry

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/tessellated-io/conveyor/log"
)

// Implements a retryable and returns the last error
type retryableChainRegistryClient struct {
	wrappedClient ChainRegistryClient

	attempts retry.Option
	delay    retry.Option

	logger *log.Logger
}

// Ensure that retryableChainRegistryClient implements ChainRegistryClient
var _ ChainRegistryClient = (*retryableChainRegistryClient)(nil)

// NewRetryableChainRegistryClient returns a new retryableChainRegistryClient
func NewRetryableChainRegistryClient(attempts uint, delay time.Duration, chainRegistryClient ChainRegistryClient, logger *log.Logger) (ChainRegistryClient, error) {
	return &retryableChainRegistryClient{
		wrappedClient: chainRegistryClient,

		attempts: retry.Attempts(attempts),
		delay:    retry.Delay(delay),

		logger: logger,
	}, nil
}

// ChainRegistryClient Interface

func (r *retryableChainRegistryClient) AllChainNames(ctx context.Context) ([]string, error) {
	return withRetries(ctx, r, "all_chain_names", func() ([]string, error) {
		return r.wrappedClient.AllChainNames(ctx)
	})
}

func (r *retryableChainRegistryClient) ChainNameForChainID(ctx context.Context, targetChainID string, refreshCache bool) (string, error) {
	return withRetries(ctx, r, "chain_name_for_id", func() (string, error) {
		return r.wrappedClient.ChainNameForChainID(ctx, targetChainID, refreshCache)
	})
}

func (r *retryableChainRegistryClient) ChainInfo(ctx context.Context, chainName string) (*ChainInfo, error) {
	return withRetries(ctx, r, "chain_info", func() (*ChainInfo, error) {
		return r.wrappedClient.ChainInfo(ctx, chainName)
	})
}

func withRetries[T any](ctx context.Context, r *retryableChainRegistryClient, method string, call func() (T, error)) (T, error) {
	var result T

	err := retry.Do(func() error {
		var err error
		result, err = call()
		if err != nil {
			r.logger.Error("failed call in registry client, will retry", "error", err.Error(), "method", method)
		}
		return err
	}, r.delay, r.attempts, retry.Context(ctx), retry.LastErrorOnly(true))

	return result, err
}
