package state

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "conveyor"

var (
	ErrChainIDMismatch = errorsmod.Register(codespace, 40, "node serves a different chain")
	ErrNoEndpoint      = errorsmod.Register(codespace, 41, "no reachable endpoint")
	ErrNotRecorded     = errorsmod.Register(codespace, 42, "nothing recorded for contract")
)
