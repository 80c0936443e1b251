package chain

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/tessellated-io/conveyor/arrays"
)

// Networks are offline presets for chains that are used often enough to not need a registry lookup.
var Networks = newNetworkSet(
	Info{
		ChainID:      "testing",
		ChainName:    "local",
		Bech32Prefix: "wasm",
		CoinType:     118,
		FeeTokens:    []FeeToken{{Denom: "ustake", FixedMinGasPrice: 0, AverageGasPrice: 0.025}},
		GrpcURLs:     []string{"localhost:9090"},
	},
	Info{
		ChainID:      "cosmoshub-4",
		ChainName:    "cosmoshub",
		Bech32Prefix: "cosmos",
		CoinType:     118,
		FeeTokens:    []FeeToken{{Denom: "uatom", FixedMinGasPrice: 0.005, AverageGasPrice: 0.025}},
		GrpcURLs:     []string{"cosmos-validator.tessageo.net:9090"},
	},
	Info{
		ChainID:      "juno-1",
		ChainName:    "juno",
		Bech32Prefix: "juno",
		CoinType:     118,
		FeeTokens:    []FeeToken{{Denom: "ujuno", FixedMinGasPrice: 0.075, AverageGasPrice: 0.1}},
		GrpcURLs:     []string{"juno-validator.tessageo.net:9090"},
	},
	Info{
		ChainID:      "osmosis-1",
		ChainName:    "osmosis",
		Bech32Prefix: "osmo",
		CoinType:     118,
		FeeTokens:    []FeeToken{{Denom: "uosmo", FixedMinGasPrice: 0.0025, AverageGasPrice: 0.025}},
		GrpcURLs:     []string{"osmosis-validator.tessageo.net:9090"},
	},
	Info{
		ChainID:      "neutron-1",
		ChainName:    "neutron",
		Bech32Prefix: "neutron",
		CoinType:     118,
		FeeTokens:    []FeeToken{{Denom: "untrn", FixedMinGasPrice: 0.0053, AverageGasPrice: 0.0053}},
		GrpcURLs:     []string{"neutron-validator.tessageo.net:9090"},
	},
	Info{
		ChainID:      "evmos_9001-2",
		ChainName:    "evmos",
		Bech32Prefix: "evmos",
		CoinType:     60,
		FeeTokens:    []FeeToken{{Denom: "aevmos", FixedMinGasPrice: 20000000000, AverageGasPrice: 25000000000}},
		GrpcURLs:     []string{"evmos-validator.tessageo.net:9090"},
	},
	Info{
		ChainID:      "injective-1",
		ChainName:    "injective",
		Bech32Prefix: "inj",
		CoinType:     60,
		FeeTokens:    []FeeToken{{Denom: "inj", FixedMinGasPrice: 500000000, AverageGasPrice: 700000000}},
		GrpcURLs:     []string{"sentry.chain.grpc.injective.network:443"},
	},
)

// NetworkSet indexes presets by chain id.
type NetworkSet struct {
	infos     []Info
	byChainID map[string]Info
}

func newNetworkSet(infos ...Info) *NetworkSet {
	set := &NetworkSet{
		infos:     infos,
		byChainID: make(map[string]Info, len(infos)),
	}
	for _, info := range infos {
		set.byChainID[info.ChainID] = info
	}
	return set
}

// ByChainID returns a copy of the preset, safe to modify.
func (s *NetworkSet) ByChainID(chainID string) (*Info, error) {
	info, ok := s.byChainID[chainID]
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownChain, "no preset for chain id %s", chainID)
	}
	return clone(info), nil
}

func (s *NetworkSet) ByChainName(chainName string) (*Info, error) {
	info, ok := arrays.Find(s.infos, func(info Info) bool { return info.ChainName == chainName })
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownChain, "no preset for chain name %s", chainName)
	}
	return clone(info), nil
}

func clone(info Info) *Info {
	info.FeeTokens = append([]FeeToken(nil), info.FeeTokens...)
	info.GrpcURLs = append([]string(nil), info.GrpcURLs...)
	return &info
}
