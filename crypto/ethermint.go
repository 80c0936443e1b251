package crypto

import (
	"fmt"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/evmos/evmos/v14/crypto/ethsecp256k1"
	evmoshd "github.com/evmos/evmos/v14/crypto/hd"
	"golang.org/x/crypto/sha3"
)

// EthermintKeyPair signs with eth_secp256k1 over the keccak digest of the sign bytes, and
// derives addresses the way Ethereum does.
type EthermintKeyPair struct {
	public  cryptotypes.PubKey
	private cryptotypes.PrivKey

	address sdk.AccAddress
}

var _ Signer = (*EthermintKeyPair)(nil)

func NewEthermintKeyPairFromMnemonic(mnemonic string, account, index uint32) (*EthermintKeyPair, error) {
	hdPath := hd.CreateHDPath(EthermintCoinType, account, index).String()

	algo := evmoshd.EthSecp256k1
	derivedPriv, err := algo.Derive()(mnemonic, keyring.DefaultBIP39Passphrase, hdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key at %s: %w", hdPath, err)
	}

	return newEthermintKeyPair(algo.Generate()(derivedPriv))
}

func NewEthermintKeyPairFromBytes(privateKey []byte) (*EthermintKeyPair, error) {
	return newEthermintKeyPair(&ethsecp256k1.PrivKey{Key: privateKey})
}

func newEthermintKeyPair(privKey cryptotypes.PrivKey) (*EthermintKeyPair, error) {
	pubKey := privKey.PubKey()

	address, err := ethereumAddress(pubKey)
	if err != nil {
		return nil, err
	}

	return &EthermintKeyPair{
		public:  pubKey,
		private: privKey,
		address: address,
	}, nil
}

// ethereumAddress is the last 20 bytes of the keccak hash of the uncompressed public key.
func ethereumAddress(compressedPublicKey cryptotypes.PubKey) (sdk.AccAddress, error) {
	parsed, err := btcec.ParsePubKey(compressedPublicKey.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	decompressedPublicKey := parsed.SerializeUncompressed()

	hash := sha3.NewLegacyKeccak256()
	hash.Write(decompressedPublicKey[1:]) // Drop the 0x04 prefix byte
	return sdk.AccAddress(hash.Sum(nil)[12:]), nil
}

func (e *EthermintKeyPair) Address(prefix string) string {
	encoded, err := bech32.ConvertAndEncode(prefix, e.address)
	if err != nil {
		panic(fmt.Errorf("failed to encode address with prefix %q: %w", prefix, err))
	}
	return encoded
}

func (e *EthermintKeyPair) SignBytes(bytesToSign []byte) ([]byte, error) {
	return e.private.Sign(bytesToSign)
}

func (e *EthermintKeyPair) PublicKey() cryptotypes.PubKey {
	return e.public
}

func (e *EthermintKeyPair) CoinType() uint32 {
	return EthermintCoinType
}
