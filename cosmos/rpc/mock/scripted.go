package mock

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strconv"
	"sync"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	abci "github.com/cometbft/cometbft/abci/types"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/authz"
	"github.com/evmos/evmos/v14/crypto/ethsecp256k1"
	"github.com/tessellated-io/conveyor/coding"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DecodedTx is a transaction the node received, decoded back into its parts.
type DecodedTx struct {
	Hash       string
	Bytes      []byte
	Body       *txtypes.TxBody
	AuthInfo   *txtypes.AuthInfo
	Signatures [][]byte
	Mode       txtypes.BroadcastMode

	bodyBytes     []byte
	authInfoBytes []byte
}

type pendingTx struct {
	tx       *DecodedTx
	polls    int
	response *sdk.TxResponse
}

// ScriptedNode is an in-memory NodeClient with a CheckTx step. It checks timeout heights, sequences
// and signatures the way a node does, and can be scripted to reject broadcasts or delay inclusion.
type ScriptedNode struct {
	ChainID      string
	Bech32Prefix string

	// GasUsed is the simulation answer and the gas reported for included txs.
	GasUsed   uint64
	BlockTime time.Duration
	// HeightStep is added to the height after every GetLatestBlock call.
	HeightStep int64

	// Rejections are answered in order to the first broadcasts, before any check runs.
	Rejections []*sdk.TxResponse
	// PollsBeforeInclusion is how many GetTx calls answer NotFound for an accepted tx.
	PollsBeforeInclusion int
	// InclusionHeight overrides the height reported for included txs.
	InclusionHeight int64
	// DeliverCode and DeliverLog are reported by GetTx for included txs.
	DeliverCode uint32
	DeliverLog  string
	// SimulateChecksSequence makes Simulate fail on a stale sequence like a real node's ante handler.
	SimulateChecksSequence bool

	// BeforeBroadcast runs ahead of every broadcast with its 1-based count.
	BeforeBroadcast func(n int)
	// Query answers SmartQuery. Nil answers NotFound.
	Query func(contract string, query []byte) ([]byte, error)

	lock        sync.Mutex
	genesis     time.Time
	height      int64
	accounts    map[string]*authtypes.BaseAccount
	balances    map[string]sdk.Coins
	pending     map[string]*pendingTx
	broadcasts  []*DecodedTx
	simulations int
	codes       map[uint64]*wasmtypes.CodeInfoResponse
	contracts   int
}

var _ rpc.NodeClient = (*ScriptedNode)(nil)

// NewScriptedNode returns a node at the given height with one second blocks.
func NewScriptedNode(chainID, bech32Prefix string, height int64) *ScriptedNode {
	return &ScriptedNode{
		ChainID:      chainID,
		Bech32Prefix: bech32Prefix,
		GasUsed:      100_000,
		BlockTime:    time.Second,

		genesis:  time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		height:   height,
		accounts: make(map[string]*authtypes.BaseAccount),
		balances: make(map[string]sdk.Coins),
		pending:  make(map[string]*pendingTx),
		codes:    make(map[uint64]*wasmtypes.CodeInfoResponse),
	}
}

// AddAccount registers an account so the node accepts its transactions.
func (n *ScriptedNode) AddAccount(address string, accountNumber, sequence uint64) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.accounts[address] = &authtypes.BaseAccount{Address: address, AccountNumber: accountNumber, Sequence: sequence}
}

// SetSequence moves an account's sequence, as if another client had used it.
func (n *ScriptedNode) SetSequence(address string, sequence uint64) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if account, ok := n.accounts[address]; ok {
		account.Sequence = sequence
	}
}

// Sequence is the sequence the node expects next from address.
func (n *ScriptedNode) Sequence(address string) uint64 {
	n.lock.Lock()
	defer n.lock.Unlock()

	if account, ok := n.accounts[address]; ok {
		return account.Sequence
	}
	return 0
}

// SetBalance replaces the balances of address.
func (n *ScriptedNode) SetBalance(address string, coins ...sdk.Coin) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.balances[address] = sdk.NewCoins(coins...)
}

// AdvanceHeight produces count empty blocks.
func (n *ScriptedNode) AdvanceHeight(count int64) {
	n.lock.Lock()
	defer n.lock.Unlock()

	n.height += count
}

// Height is the node's current height.
func (n *ScriptedNode) Height() int64 {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.height
}

// Broadcasts returns every transaction submitted so far, rejected or not.
func (n *ScriptedNode) Broadcasts() []*DecodedTx {
	n.lock.Lock()
	defer n.lock.Unlock()

	return append([]*DecodedTx(nil), n.broadcasts...)
}

// Simulations counts Simulate calls.
func (n *ScriptedNode) Simulations() int {
	n.lock.Lock()
	defer n.lock.Unlock()

	return n.simulations
}

func (n *ScriptedNode) Simulate(_ context.Context, txBytes []byte) (uint64, error) {
	tx, err := decodeTx(txBytes)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, err.Error())
	}

	n.lock.Lock()
	defer n.lock.Unlock()

	n.simulations++
	if n.SimulateChecksSequence {
		if response := n.checkSequence(tx); response != nil {
			return 0, status.Error(codes.Unknown, response.RawLog)
		}
	}
	return n.GasUsed, nil
}

func (n *ScriptedNode) BroadcastTx(_ context.Context, txBytes []byte, mode txtypes.BroadcastMode) (*sdk.TxResponse, error) {
	tx, err := decodeTx(txBytes)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	tx.Mode = mode

	n.lock.Lock()
	n.broadcasts = append(n.broadcasts, tx)
	count := len(n.broadcasts)
	hook := n.BeforeBroadcast
	n.lock.Unlock()

	if hook != nil {
		hook(count)
	}

	n.lock.Lock()
	defer n.lock.Unlock()

	if len(n.Rejections) > 0 {
		rejection := *n.Rejections[0]
		n.Rejections = n.Rejections[1:]
		rejection.TxHash = tx.Hash
		return &rejection, nil
	}

	if response := n.checkTx(tx); response != nil {
		return response, nil
	}

	n.accountFor(tx).Sequence++
	n.pending[tx.Hash] = &pendingTx{tx: tx, polls: n.PollsBeforeInclusion}
	return &sdk.TxResponse{TxHash: tx.Hash}, nil
}

func (n *ScriptedNode) GetTx(_ context.Context, hash string) (*sdk.TxResponse, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	pending, ok := n.pending[hash]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "tx not found: %s", hash)
	}
	if pending.polls > 0 {
		pending.polls--
		return nil, status.Errorf(codes.NotFound, "tx not found: %s", hash)
	}

	if pending.response == nil {
		pending.response = n.include(pending.tx)
	}
	response := *pending.response
	return &response, nil
}

func (n *ScriptedNode) GetAccount(_ context.Context, address string) (*authtypes.BaseAccount, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	account, ok := n.accounts[address]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "account %s not found", address)
	}
	copied := *account
	return &copied, nil
}

func (n *ScriptedNode) GetLatestBlock(_ context.Context) (*rpc.BlockInfo, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	block := n.block(n.height)
	n.height += n.HeightStep
	return block, nil
}

func (n *ScriptedNode) GetBlockByHeight(_ context.Context, height int64) (*rpc.BlockInfo, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	if height < 1 || height > n.height {
		return nil, status.Errorf(codes.NotFound, "block %d not found", height)
	}
	return n.block(height), nil
}

func (n *ScriptedNode) GetBalance(_ context.Context, address, denom string) (*sdk.Coin, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	coin := sdk.NewCoin(denom, n.balances[address].AmountOf(denom))
	return &coin, nil
}

func (n *ScriptedNode) NodeNetwork(_ context.Context) (string, error) {
	return n.ChainID, nil
}

func (n *ScriptedNode) ContractCode(_ context.Context, codeID uint64) (*wasmtypes.CodeInfoResponse, error) {
	n.lock.Lock()
	defer n.lock.Unlock()

	code, ok := n.codes[codeID]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "code %d not found", codeID)
	}
	copied := *code
	return &copied, nil
}

func (n *ScriptedNode) SmartQuery(_ context.Context, contract string, query []byte) ([]byte, error) {
	if n.Query == nil {
		return nil, status.Errorf(codes.NotFound, "contract %s not found", contract)
	}
	return n.Query(contract, query)
}

func (n *ScriptedNode) block(height int64) *rpc.BlockInfo {
	return &rpc.BlockInfo{
		Height:  height,
		Time:    n.genesis.Add(time.Duration(height) * n.BlockTime),
		ChainID: n.ChainID,
	}
}

func (n *ScriptedNode) accountFor(tx *DecodedTx) *authtypes.BaseAccount {
	pubKey, err := decodePubKey(tx.AuthInfo)
	if err != nil {
		return nil
	}
	address, err := sdk.Bech32ifyAddressBytes(n.Bech32Prefix, pubKey.Address())
	if err != nil {
		return nil
	}
	return n.accounts[address]
}

// checkTx returns a rejection, or nil when the tx passes.
func (n *ScriptedNode) checkTx(tx *DecodedTx) *sdk.TxResponse {
	if timeout := tx.Body.TimeoutHeight; timeout != 0 && uint64(n.height) > timeout {
		return rejection(tx, 30, fmt.Sprintf("block height: %d, timeout height: %d: tx timeout height", n.height, timeout))
	}

	account := n.accountFor(tx)
	if account == nil {
		return rejection(tx, 9, "account not found: unknown address")
	}

	if response := n.checkSequence(tx); response != nil {
		return response
	}

	pubKey, _ := decodePubKey(tx.AuthInfo)
	signDoc := &txtypes.SignDoc{
		BodyBytes:     tx.bodyBytes,
		AuthInfoBytes: tx.authInfoBytes,
		ChainId:       n.ChainID,
		AccountNumber: account.AccountNumber,
	}
	signBytes, err := signDoc.Marshal()
	if err != nil || len(tx.Signatures) != 1 || !pubKey.VerifySignature(signBytes, tx.Signatures[0]) {
		return rejection(tx, 4, fmt.Sprintf("signature verification failed; please verify account number (%d) and chain-id (%s): unauthorized", account.AccountNumber, n.ChainID))
	}
	return nil
}

func (n *ScriptedNode) checkSequence(tx *DecodedTx) *sdk.TxResponse {
	account := n.accountFor(tx)
	if account == nil || len(tx.AuthInfo.SignerInfos) != 1 {
		return nil
	}

	got := tx.AuthInfo.SignerInfos[0].Sequence
	if got != account.Sequence {
		return rejection(tx, 32, fmt.Sprintf("account sequence mismatch, expected %d, got %d: incorrect account sequence", account.Sequence, got))
	}
	return nil
}

func (n *ScriptedNode) include(tx *DecodedTx) *sdk.TxResponse {
	height := n.InclusionHeight
	if height == 0 {
		height = n.height
	}

	var gasWanted int64
	if tx.AuthInfo.Fee != nil {
		gasWanted = int64(tx.AuthInfo.Fee.GasLimit)
	}

	response := &sdk.TxResponse{
		Height:    height,
		TxHash:    tx.Hash,
		Code:      n.DeliverCode,
		RawLog:    n.DeliverLog,
		GasWanted: gasWanted,
		GasUsed:   int64(n.GasUsed),
		Timestamp: n.block(height).Time.Format(time.RFC3339),
	}
	if n.DeliverCode != 0 {
		response.Codespace = "wasm"
		return response
	}

	for _, msg := range tx.Body.Messages {
		response.Events = append(response.Events, n.execute(msg)...)
	}
	return response
}

// execute applies the state changes of the message types the tests rely on and emits their events.
func (n *ScriptedNode) execute(msg *codectypes.Any) []abci.Event {
	events := []abci.Event{event(sdk.EventTypeMessage, sdk.AttributeKeyAction, msg.TypeUrl)}

	switch msg.TypeUrl {
	case sdk.MsgTypeURL(&authz.MsgExec{}):
		exec := &authz.MsgExec{}
		if err := exec.Unmarshal(msg.Value); err == nil {
			for _, inner := range exec.Msgs {
				events = append(events, n.execute(inner)...)
			}
		}
	case sdk.MsgTypeURL(&wasmtypes.MsgStoreCode{}):
		store := &wasmtypes.MsgStoreCode{}
		_ = store.Unmarshal(msg.Value)
		codeID := uint64(len(n.codes) + 1)
		checksum := sha256.Sum256(store.WASMByteCode)
		n.codes[codeID] = &wasmtypes.CodeInfoResponse{CodeID: codeID, Creator: store.Sender, DataHash: checksum[:]}
		events = append(events, event(wasmtypes.EventTypeStoreCode, wasmtypes.AttributeKeyCodeID, strconv.FormatUint(codeID, 10)))
	case sdk.MsgTypeURL(&wasmtypes.MsgInstantiateContract{}), sdk.MsgTypeURL(&wasmtypes.MsgInstantiateContract2{}):
		n.contracts++
		seed := sha256.Sum256([]byte(fmt.Sprintf("contract/%d", n.contracts)))
		address, _ := sdk.Bech32ifyAddressBytes(n.Bech32Prefix, seed[:])
		events = append(events, event(wasmtypes.EventTypeInstantiate, wasmtypes.AttributeKeyContractAddr, address))
	case sdk.MsgTypeURL(&wasmtypes.MsgExecuteContract{}):
		execute := &wasmtypes.MsgExecuteContract{}
		_ = execute.Unmarshal(msg.Value)
		events = append(events, event(wasmtypes.EventTypeExecute, wasmtypes.AttributeKeyContractAddr, execute.Contract))
	}
	return events
}

func rejection(tx *DecodedTx, code uint32, log string) *sdk.TxResponse {
	return &sdk.TxResponse{
		TxHash:    tx.Hash,
		Codespace: "sdk",
		Code:      code,
		RawLog:    log,
	}
}

func event(eventType, key, value string) abci.Event {
	return abci.Event{
		Type:       eventType,
		Attributes: []abci.EventAttribute{{Key: key, Value: value, Index: true}},
	}
}

func decodeTx(txBytes []byte) (*DecodedTx, error) {
	raw := &txtypes.TxRaw{}
	if err := raw.Unmarshal(txBytes); err != nil {
		return nil, fmt.Errorf("decoding tx: %w", err)
	}

	body := &txtypes.TxBody{}
	if err := body.Unmarshal(raw.BodyBytes); err != nil {
		return nil, fmt.Errorf("decoding body: %w", err)
	}

	authInfo := &txtypes.AuthInfo{}
	if err := authInfo.Unmarshal(raw.AuthInfoBytes); err != nil {
		return nil, fmt.Errorf("decoding auth info: %w", err)
	}

	return &DecodedTx{
		Hash:       coding.TxHash(txBytes),
		Bytes:      txBytes,
		Body:       body,
		AuthInfo:   authInfo,
		Signatures: raw.Signatures,

		bodyBytes:     raw.BodyBytes,
		authInfoBytes: raw.AuthInfoBytes,
	}, nil
}

func decodePubKey(authInfo *txtypes.AuthInfo) (cryptotypes.PubKey, error) {
	if len(authInfo.SignerInfos) != 1 || authInfo.SignerInfos[0].PublicKey == nil {
		return nil, fmt.Errorf("expected exactly one signer with a public key")
	}

	packed := authInfo.SignerInfos[0].PublicKey
	switch packed.TypeUrl {
	case "/cosmos.crypto.secp256k1.PubKey":
		pubKey := &secp256k1.PubKey{}
		return pubKey, pubKey.Unmarshal(packed.Value)
	case "/ethermint.crypto.v1.ethsecp256k1.PubKey", "/injective.crypto.v1beta1.ethsecp256k1.PubKey":
		pubKey := &ethsecp256k1.PubKey{}
		return pubKey, pubKey.Unmarshal(packed.Value)
	default:
		return nil, fmt.Errorf("unsupported public key type %s", packed.TypeUrl)
	}
}
