package daemon

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/CosmWasm/wasmd/x/wasm/ioutils"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tessellated-io/conveyor/coding"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/cosmos/tx"
)

const defaultLabel = "instantiate_contract"

// InstantiateRequest describes a contract instantiation. A zero CodeID uses the code id recorded
// for ContractID, and a non-empty ContractID records the new address.
type InstantiateRequest struct {
	ContractID string
	CodeID     uint64
	Msg        any
	Label      string
	Admin      string
	Funds      sdk.Coins
}

// Upload stores a wasm binary, gzipped unless it already is, and records its code id under
// contractID. It returns once the code is queryable, or ErrCodeNotServed when the node still
// does not serve it after the configured number of blocks.
func (d *Daemon) Upload(ctx context.Context, contractID string, wasm []byte) (*tx.TxResult, error) {
	code := wasm
	switch {
	case ioutils.IsWasm(wasm):
		var err error
		if code, err = ioutils.GzipIt(wasm); err != nil {
			return nil, err
		}
	case !ioutils.IsGzip(wasm):
		return nil, errorsmod.Wrap(ErrInvalidCode, "expected a wasm binary or gzip archive")
	}

	msg := &wasmtypes.MsgStoreCode{
		Sender:       d.Sender(),
		WASMByteCode: code,
	}
	result, err := d.Commit(ctx, []sdk.Msg{msg}, "")
	if err != nil {
		return result, err
	}

	codeID, err := result.UploadedCodeID()
	if err != nil {
		return result, err
	}
	d.logger.Info("uploaded code", "tx_hash", result.Hash, "contract_id", contractID, "code_id", codeID, "size", len(code))

	if contractID != "" {
		if err := d.store.Deployments().SetCodeID(contractID, codeID); err != nil {
			return result, err
		}
	}

	// Nodes behind the one that answered may not serve the code yet.
	for waited := uint64(0); ; waited++ {
		_, err := d.store.Client().ContractCode(ctx, codeID)
		if err == nil {
			return result, nil
		}
		if !rpc.IsNotFound(err) {
			return result, err
		}
		if waited == d.codeWaitBlocks {
			return result, errorsmod.Wrapf(ErrCodeNotServed, "code %d after %d blocks", codeID, waited)
		}
		if err := d.NextBlock(ctx); err != nil {
			return result, err
		}
	}
}

// Instantiate creates a contract with MsgInstantiateContract.
func (d *Daemon) Instantiate(ctx context.Context, request InstantiateRequest) (*tx.TxResult, error) {
	codeID, initMsg, err := d.prepareInstantiate(request)
	if err != nil {
		return nil, err
	}

	msg := &wasmtypes.MsgInstantiateContract{
		Sender: d.Sender(),
		Admin:  request.Admin,
		CodeID: codeID,
		Label:  label(request),
		Msg:    initMsg,
		Funds:  request.Funds,
	}
	return d.commitInstantiate(ctx, request, msg)
}

// Instantiate2 creates a contract at an address predictable from salt.
func (d *Daemon) Instantiate2(ctx context.Context, request InstantiateRequest, salt []byte) (*tx.TxResult, error) {
	codeID, initMsg, err := d.prepareInstantiate(request)
	if err != nil {
		return nil, err
	}

	msg := &wasmtypes.MsgInstantiateContract2{
		Sender: d.Sender(),
		Admin:  request.Admin,
		CodeID: codeID,
		Label:  label(request),
		Msg:    initMsg,
		Funds:  request.Funds,
		Salt:   salt,
	}
	d.logger.Debug("instantiating at a salted address", "code_id", codeID, "salt", coding.NormalizeBytesToHex(salt))
	return d.commitInstantiate(ctx, request, msg)
}

// Execute calls a contract with msg encoded as JSON.
func (d *Daemon) Execute(ctx context.Context, contract string, msg any, funds sdk.Coins) (*tx.TxResult, error) {
	executeMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding execute msg: %w", err)
	}

	result, err := d.Commit(ctx, []sdk.Msg{&wasmtypes.MsgExecuteContract{
		Sender:   d.Sender(),
		Contract: contract,
		Msg:      executeMsg,
		Funds:    funds,
	}}, "")
	if err != nil {
		return result, err
	}
	d.logger.Info("executed contract", "tx_hash", result.Hash, "contract", contract)
	return result, nil
}

// Migrate moves a contract to codeID, running its migrate entry point with msg.
func (d *Daemon) Migrate(ctx context.Context, contract string, codeID uint64, msg any) (*tx.TxResult, error) {
	migrateMsg, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding migrate msg: %w", err)
	}

	result, err := d.Commit(ctx, []sdk.Msg{&wasmtypes.MsgMigrateContract{
		Sender:   d.Sender(),
		Contract: contract,
		CodeID:   codeID,
		Msg:      migrateMsg,
	}}, "")
	if err != nil {
		return result, err
	}
	d.logger.Info("migrated contract", "tx_hash", result.Hash, "contract", contract, "code_id", codeID)
	return result, nil
}

// Query runs a smart query and decodes the JSON answer into response.
func (d *Daemon) Query(ctx context.Context, contract string, query any, response any) error {
	queryMsg, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	data, err := d.store.Client().SmartQuery(ctx, contract, queryMsg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, response); err != nil {
		return fmt.Errorf("decoding query response from %s: %w", contract, err)
	}
	return nil
}

// Helpers

func (d *Daemon) prepareInstantiate(request InstantiateRequest) (uint64, []byte, error) {
	codeID := request.CodeID
	if codeID == 0 {
		var err error
		if codeID, err = d.store.Deployments().CodeID(request.ContractID); err != nil {
			return 0, nil, err
		}
	}

	initMsg, err := json.Marshal(request.Msg)
	if err != nil {
		return 0, nil, fmt.Errorf("encoding instantiate msg: %w", err)
	}
	return codeID, initMsg, nil
}

func (d *Daemon) commitInstantiate(ctx context.Context, request InstantiateRequest, msg sdk.Msg) (*tx.TxResult, error) {
	result, err := d.Commit(ctx, []sdk.Msg{msg}, "")
	if err != nil {
		return result, err
	}

	address, err := result.InstantiatedContract()
	if err != nil {
		return result, err
	}
	d.logger.Info("instantiated contract", "tx_hash", result.Hash, "contract_id", request.ContractID, "address", address)

	if request.ContractID != "" {
		if err := d.store.Deployments().SetAddress(request.ContractID, address); err != nil {
			return result, err
		}
	}
	return result, nil
}

func label(request InstantiateRequest) string {
	if request.Label != "" {
		return request.Label
	}
	return defaultLabel
}
