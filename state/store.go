package state

import (
	"context"
	"io"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/grpc"
	"github.com/tessellated-io/conveyor/log"
)

const (
	DefaultQueryAttempts uint = 5
	DefaultQueryDelay         = 500 * time.Millisecond

	defaultNetworkCheckTimeout = 10 * time.Second
)

// Dialer opens a node client for one endpoint. The closer releases the underlying connection.
type Dialer func(url string, logger *log.Logger) (rpc.NodeClient, io.Closer, error)

// GrpcDialer dials url over gRPC and retries read only queries on the connection.
func GrpcDialer(url string, logger *log.Logger) (rpc.NodeClient, io.Closer, error) {
	conn, err := grpc.GetGrpcConnection(url)
	if err != nil {
		return nil, nil, err
	}

	client := rpc.NewGrpcClient(conn, logger)
	return rpc.NewRetryableRpcClient(DefaultQueryAttempts, DefaultQueryDelay, client, logger), conn, nil
}

type StoreOption func(*storeOptions)

type storeOptions struct {
	dialer              Dialer
	deployments         DeploymentStore
	networkCheckTimeout time.Duration
}

// WithDialer replaces how endpoints are dialed.
func WithDialer(dialer Dialer) StoreOption {
	return func(o *storeOptions) {
		o.dialer = dialer
	}
}

// WithDeployments attaches deployment records. The default keeps them in memory under "default".
func WithDeployments(deployments DeploymentStore) StoreOption {
	return func(o *storeOptions) {
		o.deployments = deployments
	}
}

func WithNetworkCheckTimeout(timeout time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.networkCheckTimeout = timeout
	}
}

// Store is the shared state of one chain: its metadata, the connection every component queries
// through, and the deployment records. It is safe for concurrent use.
type Store struct {
	info        *chain.Info
	url         string
	client      rpc.NodeClient
	closer      io.Closer
	deployments DeploymentStore
}

// Connect tries the chain's gRPC endpoints in order and keeps the first one that serves the
// expected chain id.
func Connect(ctx context.Context, info *chain.Info, logger *log.Logger, opts ...StoreOption) (*Store, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	options := &storeOptions{
		dialer:              GrpcDialer,
		networkCheckTimeout: defaultNetworkCheckTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.deployments == nil {
		options.deployments = NewMemoryDeployments(info.ChainID, "default")
	}

	storeLogger := logger.ApplyPrefix("🔌 ").With("chain_id", info.ChainID)

	var mismatch, lastErr error
	for _, url := range info.GrpcURLs {
		endpointLogger := storeLogger.With("endpoint", url)

		client, closer, err := options.dialer(url, logger)
		if err != nil {
			endpointLogger.Warn("failed to dial endpoint", "error", err)
			lastErr = err
			continue
		}

		network, err := nodeNetwork(ctx, client, options.networkCheckTimeout)
		switch {
		case err != nil:
			endpointLogger.Warn("endpoint did not report its network", "error", err)
			lastErr = err
		case network != info.ChainID:
			endpointLogger.Warn("endpoint serves a different chain", "network", network)
			mismatch = errorsmod.Wrapf(ErrChainIDMismatch, "%s reports %s, expected %s", url, network, info.ChainID)
		default:
			endpointLogger.Info("connected")
			return &Store{
				info:        info,
				url:         url,
				client:      client,
				closer:      closer,
				deployments: options.deployments,
			}, nil
		}

		closeQuietly(closer, endpointLogger)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	if mismatch != nil {
		return nil, mismatch
	}
	if lastErr == nil {
		return nil, errorsmod.Wrapf(ErrNoEndpoint, "chain %s", info.ChainID)
	}
	return nil, errorsmod.Wrapf(ErrNoEndpoint, "chain %s: %s", info.ChainID, lastErr)
}

// NewStore wraps an existing client without dialing or verifying anything.
func NewStore(info *chain.Info, client rpc.NodeClient, deployments DeploymentStore) *Store {
	if deployments == nil {
		deployments = NewMemoryDeployments(info.ChainID, "default")
	}
	return &Store{
		info:        info,
		client:      client,
		deployments: deployments,
	}
}

func (s *Store) Info() *chain.Info {
	return s.info
}

func (s *Store) ChainID() string {
	return s.info.ChainID
}

// Endpoint is the URL the store is connected to. It is empty for stores made with NewStore.
func (s *Store) Endpoint() string {
	return s.url
}

func (s *Store) Client() rpc.NodeClient {
	return s.client
}

func (s *Store) Deployments() DeploymentStore {
	return s.deployments
}

// Close releases the connection.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Helpers

func nodeNetwork(ctx context.Context, client rpc.NodeClient, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return client.NodeNetwork(ctx)
}

func closeQuietly(closer io.Closer, logger *log.Logger) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Debug("failed to close endpoint", "error", err)
	}
}
