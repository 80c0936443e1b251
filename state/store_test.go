package state_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/cosmos/rpc/mock"
	"github.com/tessellated-io/conveyor/log"
	"github.com/tessellated-io/conveyor/state"
)

type closer struct {
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

// fakeEndpoints dials nodes by URL. A URL without a node fails to dial.
type fakeEndpoints struct {
	nodes   map[string]rpc.NodeClient
	closers map[string]*closer
	dialed  []string
}

func newFakeEndpoints(nodes map[string]rpc.NodeClient) *fakeEndpoints {
	return &fakeEndpoints{nodes: nodes, closers: make(map[string]*closer)}
}

func (f *fakeEndpoints) dial(url string, _ *log.Logger) (rpc.NodeClient, io.Closer, error) {
	f.dialed = append(f.dialed, url)

	node, ok := f.nodes[url]
	if !ok {
		return nil, nil, errors.New("connection refused")
	}
	f.closers[url] = &closer{}
	return node, f.closers[url], nil
}

func testInfo(urls ...string) *chain.Info {
	return &chain.Info{
		ChainID:      "testing",
		Bech32Prefix: "wasm",
		FeeTokens:    []chain.FeeToken{{Denom: "ustake", FixedMinGasPrice: 0.01}},
		GrpcURLs:     urls,
	}
}

func unresponsive() *mock.NodeClientMock {
	return &mock.NodeClientMock{
		NodeNetworkFunc: func(context.Context) (string, error) {
			return "", errors.New("unavailable")
		},
	}
}

func TestConnect_FirstMatchingEndpointWins(t *testing.T) {
	endpoints := newFakeEndpoints(map[string]rpc.NodeClient{
		"wrong:9090":   mock.NewScriptedNode("other-1", "wasm", 1),
		"silent:9090":  unresponsive(),
		"good:9090":    mock.NewScriptedNode("testing", "wasm", 1),
		"another:9090": mock.NewScriptedNode("testing", "wasm", 1),
	})

	info := testInfo("down:9090", "wrong:9090", "silent:9090", "good:9090", "another:9090")
	store, err := state.Connect(context.Background(), info, log.Discard(), state.WithDialer(endpoints.dial))
	require.NoError(t, err)

	assert.Equal(t, "good:9090", store.Endpoint())
	assert.Equal(t, "testing", store.ChainID())
	assert.Same(t, info, store.Info())
	assert.Equal(t, []string{"down:9090", "wrong:9090", "silent:9090", "good:9090"}, endpoints.dialed)

	assert.True(t, endpoints.closers["wrong:9090"].closed)
	assert.True(t, endpoints.closers["silent:9090"].closed)
	assert.False(t, endpoints.closers["good:9090"].closed)

	require.NoError(t, store.Close())
	assert.True(t, endpoints.closers["good:9090"].closed)
}

func TestConnect_ChainIDMismatch(t *testing.T) {
	endpoints := newFakeEndpoints(map[string]rpc.NodeClient{
		"wrong:9090": mock.NewScriptedNode("other-1", "wasm", 1),
	})

	_, err := state.Connect(context.Background(), testInfo("down:9090", "wrong:9090"), log.Discard(), state.WithDialer(endpoints.dial))
	assert.ErrorIs(t, err, state.ErrChainIDMismatch)
	assert.Contains(t, err.Error(), "other-1")
}

func TestConnect_NoEndpoint(t *testing.T) {
	endpoints := newFakeEndpoints(map[string]rpc.NodeClient{"silent:9090": unresponsive()})

	_, err := state.Connect(context.Background(), testInfo("down:9090", "silent:9090"), log.Discard(),
		state.WithDialer(endpoints.dial),
		state.WithNetworkCheckTimeout(time.Second),
	)
	assert.ErrorIs(t, err, state.ErrNoEndpoint)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestConnect_InvalidChain(t *testing.T) {
	_, err := state.Connect(context.Background(), testInfo(), log.Discard())
	assert.ErrorIs(t, err, chain.ErrInvalidChain)
}

func TestConnect_DefaultDeploymentsAreInMemory(t *testing.T) {
	endpoints := newFakeEndpoints(map[string]rpc.NodeClient{
		"good:9090": mock.NewScriptedNode("testing", "wasm", 1),
	})

	store, err := state.Connect(context.Background(), testInfo("good:9090"), log.Discard(), state.WithDialer(endpoints.dial))
	require.NoError(t, err)

	require.NoError(t, store.Deployments().SetCodeID("counter", 3))
	codeID, err := store.Deployments().CodeID("counter")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), codeID)
}

func TestNewStore(t *testing.T) {
	node := mock.NewScriptedNode("testing", "wasm", 1)
	deployments := state.NewMemoryDeployments("testing", "blue")

	store := state.NewStore(testInfo("good:9090"), node, deployments)
	assert.Same(t, deployments, store.Deployments())
	assert.Equal(t, node, store.Client())
	assert.Empty(t, store.Endpoint())
	assert.NoError(t, store.Close())
}
