package daemon

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "conveyor"

var (
	ErrInvalidCode   = errorsmod.Register(codespace, 50, "invalid contract code")
	ErrCodeNotServed = errorsmod.Register(codespace, 51, "uploaded code is not served by the node")
)
