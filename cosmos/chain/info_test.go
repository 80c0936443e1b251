package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/chain"
)

func TestFeeToken_GasPrice(t *testing.T) {
	assert.Equal(t, 0.1, chain.FeeToken{FixedMinGasPrice: 0.075, AverageGasPrice: 0.1}.GasPrice())
	assert.Equal(t, 0.3, chain.FeeToken{FixedMinGasPrice: 0.3, AverageGasPrice: 0.1}.GasPrice())
}

func TestInfo_FeeToken(t *testing.T) {
	info := &chain.Info{ChainID: "x"}
	_, err := info.FeeToken()
	require.ErrorIs(t, err, chain.ErrNoFeeToken)

	info.FeeTokens = []chain.FeeToken{{Denom: "ua"}, {Denom: "ub"}}
	token, err := info.FeeToken()
	require.NoError(t, err)
	assert.Equal(t, "ua", token.Denom)
}

func TestInfo_Validate(t *testing.T) {
	info := &chain.Info{}
	err := info.Validate()
	require.ErrorIs(t, err, chain.ErrInvalidChain)
	assert.Contains(t, err.Error(), "chain_id, bech32_prefix, grpc_urls")

	info = &chain.Info{
		ChainID:      "testing",
		Bech32Prefix: "wasm",
		GrpcURLs:     []string{"localhost:9090"},
	}
	require.ErrorIs(t, info.Validate(), chain.ErrNoFeeToken)

	info.FeeTokens = []chain.FeeToken{{Denom: "ustake", AverageGasPrice: -1}}
	require.ErrorIs(t, info.Validate(), chain.ErrInvalidChain)

	info.FeeTokens[0].AverageGasPrice = 0.025
	require.NoError(t, info.Validate())
}

func TestNetworks(t *testing.T) {
	juno, err := chain.Networks.ByChainID("juno-1")
	require.NoError(t, err)
	require.NoError(t, juno.Validate())
	assert.Equal(t, "juno", juno.Bech32Prefix)

	// Presets are copies.
	juno.FeeTokens[0].Denom = "changed"
	again, err := chain.Networks.ByChainName("juno")
	require.NoError(t, err)
	assert.Equal(t, "ujuno", again.FeeTokens[0].Denom)

	evmos, err := chain.Networks.ByChainName("evmos")
	require.NoError(t, err)
	assert.Equal(t, uint32(60), evmos.CoinType)

	_, err = chain.Networks.ByChainID("nope-1")
	require.ErrorIs(t, err, chain.ErrUnknownChain)
}
