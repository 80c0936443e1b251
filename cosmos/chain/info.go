package chain

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const codespace = "conveyor"

var (
	ErrNoFeeToken   = errorsmod.Register(codespace, 2, "chain has no fee token configured")
	ErrInvalidChain = errorsmod.Register(codespace, 3, "invalid chain info")
	ErrUnknownChain = errorsmod.Register(codespace, 4, "unknown chain")
)

// FeeToken describes how fees are priced in one denom.
type FeeToken struct {
	Denom            string  `yaml:"denom" json:"denom" comment:"Base denom fees are paid in"`
	FixedMinGasPrice float64 `yaml:"fixed_min_gas_price" json:"fixed_min_gas_price"`
	AverageGasPrice  float64 `yaml:"average_gas_price" json:"average_gas_price"`
}

// GasPrice is the price a transaction bids, the larger of the two configured prices.
func (f FeeToken) GasPrice() float64 {
	if f.FixedMinGasPrice > f.AverageGasPrice {
		return f.FixedMinGasPrice
	}
	return f.AverageGasPrice
}

// Info is static chain metadata. It is immutable for the lifetime of a client.
type Info struct {
	ChainID      string     `yaml:"chain_id" json:"chain_id" comment:"Chain id the node must report"`
	ChainName    string     `yaml:"chain_name" json:"chain_name"`
	Bech32Prefix string     `yaml:"bech32_prefix" json:"bech32_prefix" comment:"Account address prefix"`
	CoinType     uint32     `yaml:"coin_type" json:"coin_type" comment:"SLIP-44 coin type. 60 selects Ethermint style keys"`
	FeeTokens    []FeeToken `yaml:"fee_tokens" json:"fee_tokens" comment:"Fee tokens, the first one is used"`
	GrpcURLs     []string   `yaml:"grpc_urls" json:"grpc_urls" comment:"gRPC endpoints, tried in order"`
}

// FeeToken returns the token fees are paid in.
func (i *Info) FeeToken() (FeeToken, error) {
	if len(i.FeeTokens) == 0 {
		return FeeToken{}, errorsmod.Wrapf(ErrNoFeeToken, "chain %s", i.ChainID)
	}
	return i.FeeTokens[0], nil
}

// Validate checks that all fields needed to build and submit transactions are present.
func (i *Info) Validate() error {
	var missing []string
	if i.ChainID == "" {
		missing = append(missing, "chain_id")
	}
	if i.Bech32Prefix == "" {
		missing = append(missing, "bech32_prefix")
	}
	if len(i.GrpcURLs) == 0 {
		missing = append(missing, "grpc_urls")
	}
	if len(missing) > 0 {
		return errorsmod.Wrapf(ErrInvalidChain, "missing %s", strings.Join(missing, ", "))
	}

	if _, err := i.FeeToken(); err != nil {
		return err
	}
	for _, token := range i.FeeTokens {
		if token.Denom == "" {
			return errorsmod.Wrap(ErrInvalidChain, "fee token without denom")
		}
		if token.FixedMinGasPrice < 0 || token.AverageGasPrice < 0 {
			return errorsmod.Wrapf(ErrInvalidChain, "negative gas price for %s", token.Denom)
		}
	}
	return nil
}

func (i *Info) String() string {
	return fmt.Sprintf("%s (%s)", i.ChainName, i.ChainID)
}
