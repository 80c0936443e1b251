package registry

import (
	"encoding/json"
	"fmt"

	"github.com/tessellated-io/conveyor/arrays"
	"github.com/tessellated-io/conveyor/cosmos/chain"
)

func parseChainResponse(responseBytes []byte) (*ChainInfo, error) {
	var chainInfo ChainInfo
	err := json.Unmarshal(responseBytes, &chainInfo)
	if err != nil {
		return nil, err
	}
	return &chainInfo, nil
}

func (ci *ChainInfo) FeeToken() (*FeeToken, error) {
	feeTokens := ci.Fees.FeeTokens
	if len(feeTokens) == 0 {
		return nil, ErrNoFeeTokenFound
	}
	return &feeTokens[0], nil
}

// ToChainInfo converts a registry entry into the chain metadata used to build transactions.
func (ci *ChainInfo) ToChainInfo() (*chain.Info, error) {
	if _, err := ci.FeeToken(); err != nil {
		return nil, fmt.Errorf("chain %s: %w", ci.ChainName, err)
	}
	if ci.Slip44 < 0 {
		return nil, fmt.Errorf("chain %s: invalid slip44 %d", ci.ChainName, ci.Slip44)
	}

	info := &chain.Info{
		ChainID:      ci.ChainID,
		ChainName:    ci.ChainName,
		Bech32Prefix: ci.Bech32Prefix,
		CoinType:     uint32(ci.Slip44),
		FeeTokens: arrays.Map(ci.Fees.FeeTokens, func(token FeeToken) chain.FeeToken {
			return chain.FeeToken{
				Denom:            token.Denom,
				FixedMinGasPrice: token.FixedMinGasPrice,
				AverageGasPrice:  token.AverageGasPrice,
			}
		}),
		GrpcURLs: arrays.Map(
			arrays.Filter(ci.APIs.GRPC, func(api APIAddress) bool { return api.Address != "" }),
			func(api APIAddress) string { return api.Address },
		),
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}
