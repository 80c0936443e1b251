package tx

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const codespace = "conveyor"

var (
	ErrNoMessages                = errorsmod.Register(codespace, 20, "no messages to broadcast")
	ErrRetriesExhausted          = errorsmod.Register(codespace, 21, "retries exhausted")
	ErrConfirmationTimeout       = errorsmod.Register(codespace, 22, "transaction not found in time, outcome unknown")
	ErrInsufficientBalance       = errorsmod.Register(codespace, 23, "insufficient balance to pay fees")
	ErrManualInteractionDeclined = errorsmod.Register(codespace, 24, "operator declined to continue")
	ErrMissingEvent              = errorsmod.Register(codespace, 25, "event attribute not found")
)

// RejectedError is a non-zero result code, either from CheckTx at broadcast or from execution.
type RejectedError struct {
	TxHash    string
	Codespace string
	Code      uint32
	RawLog    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("tx %s failed with code %d (codespace %s): %s", e.TxHash, e.Code, e.Codespace, e.RawLog)
}

// InsufficientBalanceError reports a fee payer that cannot cover the fee.
type InsufficientBalanceError struct {
	Address   string
	Needed    sdk.Coin
	Available sdk.Coin
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s holds %s but needs %s to pay fees", e.Address, e.Available, e.Needed)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
