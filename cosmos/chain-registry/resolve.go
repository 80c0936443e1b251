package registry

import (
	"context"

	"github.com/tessellated-io/conveyor/cosmos/chain"
)

// ResolveChain looks up chain metadata by chain id, preferring offline presets and
// falling back to the registry.
func ResolveChain(ctx context.Context, client ChainRegistryClient, chainID string) (*chain.Info, error) {
	if preset, err := chain.Networks.ByChainID(chainID); err == nil {
		return preset, nil
	}

	chainName, err := client.ChainNameForChainID(ctx, chainID, false)
	if err != nil {
		return nil, err
	}

	registryInfo, err := client.ChainInfo(ctx, chainName)
	if err != nil {
		return nil, err
	}

	return registryInfo.ToChainInfo()
}
