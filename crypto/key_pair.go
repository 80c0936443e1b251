package crypto

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// KeyPair is a standard secp256k1 signer. Signatures are RFC6979 deterministic.
type KeyPair struct {
	public  cryptotypes.PubKey
	private cryptotypes.PrivKey

	address  sdk.AccAddress
	coinType uint32
}

var _ Signer = (*KeyPair)(nil)

// NewKeyPairFromMnemonic derives a secp256k1 key without touching the global SDK config.
func NewKeyPairFromMnemonic(mnemonic string, coinType, account, index uint32) (*KeyPair, error) {
	hdPath := hd.CreateHDPath(coinType, account, index).String()

	algo := hd.Secp256k1
	derivedPriv, err := algo.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, hdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key at %s: %w", hdPath, err)
	}

	return newKeyPair(algo.Generate()(derivedPriv), coinType), nil
}

func NewKeyPairFromBytes(privateKey []byte, coinType uint32) (*KeyPair, error) {
	return newKeyPair(&secp256k1.PrivKey{Key: privateKey}, coinType), nil
}

func newKeyPair(privKey cryptotypes.PrivKey, coinType uint32) *KeyPair {
	pubKey := privKey.PubKey()

	return &KeyPair{
		public:  pubKey,
		private: privKey,

		address:  sdk.AccAddress(pubKey.Address()),
		coinType: coinType,
	}
}

func (kp *KeyPair) Address(prefix string) string {
	encoded, err := bech32.ConvertAndEncode(prefix, kp.address)
	if err != nil {
		// Only reachable with an empty or overlong prefix.
		panic(fmt.Errorf("failed to encode address with prefix %q: %w", prefix, err))
	}
	return encoded
}

func (kp *KeyPair) SignBytes(bytesToSign []byte) ([]byte, error) {
	return kp.private.Sign(bytesToSign)
}

func (kp *KeyPair) PublicKey() cryptotypes.PubKey {
	return kp.public
}

func (kp *KeyPair) CoinType() uint32 {
	return kp.coinType
}
