package tx

import (
	"strconv"
	"time"

	errorsmod "cosmossdk.io/errors"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TxResult is an included transaction. A non-zero Code is still a result, see AssertSuccess.
type TxResult struct {
	Hash      string
	Height    int64
	Code      uint32
	Codespace string
	RawLog    string
	Data      string
	GasUsed   int64
	GasWanted int64
	Events    []abci.Event
	Logs      sdk.ABCIMessageLogs
	Timestamp time.Time
}

func NewTxResult(response *sdk.TxResponse) *TxResult {
	result := &TxResult{
		Hash:      response.TxHash,
		Height:    response.Height,
		Code:      response.Code,
		Codespace: response.Codespace,
		RawLog:    response.RawLog,
		Data:      response.Data,
		GasUsed:   response.GasUsed,
		GasWanted: response.GasWanted,
		Events:    response.Events,
		Logs:      response.Logs,
	}

	// Nodes that do not index block times leave the timestamp empty.
	if timestamp, err := time.Parse(time.RFC3339, response.Timestamp); err == nil {
		result.Timestamp = timestamp
	}
	return result
}

func (r *TxResult) Succeeded() bool {
	return r.Code == 0
}

// AssertSuccess converts a failed execution into a *RejectedError.
func (r *TxResult) AssertSuccess() error {
	if r.Succeeded() {
		return nil
	}
	return &RejectedError{
		TxHash:    r.Hash,
		Codespace: r.Codespace,
		Code:      r.Code,
		RawLog:    r.RawLog,
	}
}

// EventAttributes returns every value of key in events of eventType. Events are preferred, legacy
// per message logs are scanned when no event matches.
func (r *TxResult) EventAttributes(eventType, key string) []string {
	var values []string
	for _, event := range r.Events {
		if event.Type != eventType {
			continue
		}
		for _, attribute := range event.Attributes {
			if attribute.Key == key {
				values = append(values, attribute.Value)
			}
		}
	}
	if len(values) > 0 {
		return values
	}

	for _, messageLog := range r.Logs {
		for _, event := range messageLog.Events {
			if event.Type != eventType {
				continue
			}
			for _, attribute := range event.Attributes {
				if attribute.Key == key {
					values = append(values, attribute.Value)
				}
			}
		}
	}
	return values
}

// EventAttribute returns the first value of key in events of eventType.
func (r *TxResult) EventAttribute(eventType, key string) (string, bool) {
	values := r.EventAttributes(eventType, key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// UploadedCodeID reads the code id assigned to a MsgStoreCode.
func (r *TxResult) UploadedCodeID() (uint64, error) {
	raw, found := r.EventAttribute(wasmtypes.EventTypeStoreCode, wasmtypes.AttributeKeyCodeID)
	if !found {
		return 0, errorsmod.Wrapf(ErrMissingEvent, "%s.%s in tx %s", wasmtypes.EventTypeStoreCode, wasmtypes.AttributeKeyCodeID, r.Hash)
	}

	codeID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errorsmod.Wrapf(ErrMissingEvent, "malformed code id %q in tx %s", raw, r.Hash)
	}
	return codeID, nil
}

// InstantiatedContract reads the address of the contract created by an instantiate message.
func (r *TxResult) InstantiatedContract() (string, error) {
	address, found := r.EventAttribute(wasmtypes.EventTypeInstantiate, wasmtypes.AttributeKeyContractAddr)
	if !found {
		return "", errorsmod.Wrapf(ErrMissingEvent, "%s.%s in tx %s", wasmtypes.EventTypeInstantiate, wasmtypes.AttributeKeyContractAddr, r.Hash)
	}
	return address, nil
}
