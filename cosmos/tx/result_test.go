package tx_test

import (
	"testing"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/tx"
)

func TestTxResult_EventAttributes(t *testing.T) {
	result := tx.NewTxResult(&sdk.TxResponse{
		TxHash: "ABC",
		Events: []abci.Event{
			{Type: "store_code", Attributes: []abci.EventAttribute{{Key: "code_checksum", Value: "ff"}, {Key: "code_id", Value: "12"}}},
			{Type: "instantiate", Attributes: []abci.EventAttribute{{Key: "_contract_address", Value: "wasm1first"}}},
			{Type: "instantiate", Attributes: []abci.EventAttribute{{Key: "_contract_address", Value: "wasm1second"}}},
		},
	})

	codeID, err := result.UploadedCodeID()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), codeID)

	contract, err := result.InstantiatedContract()
	require.NoError(t, err)
	assert.Equal(t, "wasm1first", contract)
	assert.Equal(t, []string{"wasm1first", "wasm1second"}, result.EventAttributes("instantiate", "_contract_address"))
}

func TestTxResult_FallsBackToLegacyLogs(t *testing.T) {
	result := tx.NewTxResult(&sdk.TxResponse{
		Logs: sdk.ABCIMessageLogs{{
			MsgIndex: 0,
			Events: sdk.StringEvents{{
				Type:       "store_code",
				Attributes: []sdk.Attribute{{Key: "code_id", Value: "3"}},
			}},
		}},
	})

	codeID, err := result.UploadedCodeID()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), codeID)
}

func TestTxResult_MissingEvents(t *testing.T) {
	result := tx.NewTxResult(&sdk.TxResponse{TxHash: "ABC"})

	_, err := result.UploadedCodeID()
	assert.ErrorIs(t, err, tx.ErrMissingEvent)
	_, err = result.InstantiatedContract()
	assert.ErrorIs(t, err, tx.ErrMissingEvent)

	malformed := tx.NewTxResult(&sdk.TxResponse{
		Events: []abci.Event{{Type: "store_code", Attributes: []abci.EventAttribute{{Key: "code_id", Value: "twelve"}}}},
	})
	_, err = malformed.UploadedCodeID()
	assert.ErrorIs(t, err, tx.ErrMissingEvent)
}

func TestTxResult_Timestamp(t *testing.T) {
	result := tx.NewTxResult(&sdk.TxResponse{Timestamp: "2023-01-01T00:00:42Z"})
	assert.Equal(t, time.Date(2023, time.January, 1, 0, 0, 42, 0, time.UTC), result.Timestamp.UTC())

	assert.True(t, tx.NewTxResult(&sdk.TxResponse{}).Timestamp.IsZero())
}
