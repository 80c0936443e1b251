package tx

import (
	"fmt"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/cosmos/cosmos-sdk/x/authz"
	"github.com/cosmos/gogoproto/proto"
	"github.com/evmos/evmos/v14/crypto/ethsecp256k1"
	"github.com/tessellated-io/conveyor/arrays"
	"github.com/tessellated-io/conveyor/coding"
	"github.com/tessellated-io/conveyor/crypto"
)

// DefaultTimeoutHeightOffset is how many blocks past the latest height a transaction stays valid.
const DefaultTimeoutHeightOffset uint64 = 10

const (
	injectiveBech32Prefix  = "inj"
	injectivePubKeyTypeURL = "/injective.crypto.v1beta1.ethsecp256k1.PubKey"
)

// PackMsgs wraps messages into Any envelopes.
func PackMsgs(msgs []sdk.Msg) ([]*codectypes.Any, error) {
	return arrays.MapErr(msgs, func(msg sdk.Msg) (*codectypes.Any, error) {
		packed, err := codectypes.NewAnyWithValue(msg)
		if err != nil {
			return nil, fmt.Errorf("failed to pack %T: %w", msg, err)
		}
		return packed, nil
	})
}

// WrapAuthz executes msgs on behalf of their sender through a single MsgExec signed by grantee.
func WrapAuthz(grantee string, msgs []*codectypes.Any) (*codectypes.Any, error) {
	exec := &authz.MsgExec{
		Grantee: grantee,
		Msgs:    msgs,
	}
	return codectypes.NewAnyWithValue(exec)
}

// TimeoutHeight is the last height at which a transaction built now may be included.
func TimeoutHeight(latestHeight int64, offset uint64) uint64 {
	if latestHeight < 0 {
		return offset
	}
	return uint64(latestHeight) + offset
}

func BuildBody(msgs []*codectypes.Any, memo string, timeoutHeight uint64) *txtypes.TxBody {
	return &txtypes.TxBody{
		Messages:      msgs,
		Memo:          memo,
		TimeoutHeight: timeoutHeight,
	}
}

// PackPublicKey packs a signer's public key the way the chain behind bech32Prefix expects it.
func PackPublicKey(pubKey cryptotypes.PubKey, bech32Prefix string) (*codectypes.Any, error) {
	packed, err := codectypes.NewAnyWithValue(pubKey)
	if err != nil {
		return nil, fmt.Errorf("failed to pack public key: %w", err)
	}

	// Injective registers the same key layout under its own type url.
	if bech32Prefix == injectiveBech32Prefix && packed.TypeUrl == "/"+proto.MessageName(&ethsecp256k1.PubKey{}) {
		packed.TypeUrl = injectivePubKeyTypeURL
	}
	return packed, nil
}

// BuildAuthInfo describes a single SIGN_MODE_DIRECT signer and the fee. A zero fee amount is
// encoded as no coins, as simulation expects.
func BuildAuthInfo(pubKey *codectypes.Any, sequence uint64, fee Fee, feeGranter string) *txtypes.AuthInfo {
	var amount sdk.Coins
	if fee.Amount.IsValid() && fee.Amount.IsPositive() {
		amount = sdk.Coins{fee.Amount}
	}

	return &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{
			{
				PublicKey: pubKey,
				ModeInfo: &txtypes.ModeInfo{
					Sum: &txtypes.ModeInfo_Single_{
						Single: &txtypes.ModeInfo_Single{Mode: signing.SignMode_SIGN_MODE_DIRECT},
					},
				},
				Sequence: sequence,
			},
		},
		Fee: &txtypes.Fee{
			Amount:   amount,
			GasLimit: fee.GasLimit,
			Granter:  feeGranter,
		},
	}
}

func BuildSignDoc(body *txtypes.TxBody, authInfo *txtypes.AuthInfo, chainID string, accountNumber uint64) (*txtypes.SignDoc, error) {
	bodyBytes, err := body.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode tx body: %w", err)
	}

	authInfoBytes, err := authInfo.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode auth info: %w", err)
	}

	return &txtypes.SignDoc{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		ChainId:       chainID,
		AccountNumber: accountNumber,
	}, nil
}

// SignTx signs the canonical sign doc bytes and encodes the result as a TxRaw.
func SignTx(signer crypto.Signer, signDoc *txtypes.SignDoc) (*SignedTx, error) {
	signBytes, err := signDoc.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign doc: %w", err)
	}

	signature, err := signer.SignBytes(signBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	raw := &txtypes.TxRaw{
		BodyBytes:     signDoc.BodyBytes,
		AuthInfoBytes: signDoc.AuthInfoBytes,
		Signatures:    [][]byte{signature},
	}
	txBytes, err := raw.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode tx: %w", err)
	}

	return &SignedTx{
		Bytes: txBytes,
		Hash:  coding.TxHash(txBytes),
	}, nil
}
