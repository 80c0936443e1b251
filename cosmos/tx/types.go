package tx

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountInfo is what signing needs to know about the sender's on-chain account.
type AccountInfo struct {
	Address       string
	AccountNumber uint64
	Sequence      uint64
}

// Fee is a gas limit and the amount bid for it.
type Fee struct {
	GasLimit uint64
	Amount   sdk.Coin
}

func (f Fee) String() string {
	return fmt.Sprintf("%d gas for %s", f.GasLimit, f.Amount)
}

// SignedTx is an encoded TxRaw, ready for submission.
type SignedTx struct {
	Bytes []byte
	Hash  string
}
