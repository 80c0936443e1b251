package registry

import "errors"

var (
	ErrNoChainFoundForChainID = errors.New("no chain found for chain ID")
	ErrNoFeeTokenFound        = errors.New("no fee tokens found in registry")
)
