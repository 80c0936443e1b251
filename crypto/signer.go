package crypto

import (
	"fmt"

	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/tessellated-io/conveyor/coding"
)

// EthermintCoinType selects eth_secp256k1 keys and keccak addresses.
const EthermintCoinType uint32 = 60

// Signer holds a private key and signs canonical sign doc bytes with it.
type Signer interface {
	// Address returns the bech32 account address under prefix.
	Address(prefix string) string
	PublicKey() cryptotypes.PubKey
	SignBytes(bytesToSign []byte) ([]byte, error)
	// CoinType is the SLIP-44 tag that selected the signing scheme.
	CoinType() uint32
}

// NewSignerFromMnemonic derives a key at m/44'/<coinType>'/<account>'/0/<index>.
func NewSignerFromMnemonic(coinType uint32, mnemonic string, account, index uint32) (Signer, error) {
	switch coinType {
	case EthermintCoinType:
		return NewEthermintKeyPairFromMnemonic(mnemonic, account, index)
	default:
		return NewKeyPairFromMnemonic(mnemonic, coinType, account, index)
	}
}

// NewSignerFromPrivateKeyHex imports a raw 32 byte private key.
func NewSignerFromPrivateKeyHex(coinType uint32, privateKeyHex string) (Signer, error) {
	keyBytes, err := coding.DecodeHex(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key hex: %w", err)
	}
	if len(keyBytes) != privateKeyLength {
		return nil, fmt.Errorf("invalid private key length: expected %d bytes, got %d", privateKeyLength, len(keyBytes))
	}

	switch coinType {
	case EthermintCoinType:
		return NewEthermintKeyPairFromBytes(keyBytes)
	default:
		return NewKeyPairFromBytes(keyBytes, coinType)
	}
}

const privateKeyLength = 32
