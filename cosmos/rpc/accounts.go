package rpc

import (
	errorsmod "cosmossdk.io/errors"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	vestingtypes "github.com/cosmos/cosmos-sdk/x/auth/vesting/types"
	"github.com/cosmos/gogoproto/proto"
	evmostypes "github.com/evmos/evmos/v14/types"
)

// Injective reuses the Ethermint account layout under its own proto package.
const injectiveEthAccountTypeURL = "/injective.types.v1beta1.EthAccount"

func typeURL(msg proto.Message) string {
	return "/" + proto.MessageName(msg)
}

var (
	baseAccountTypeURL       = typeURL(&authtypes.BaseAccount{})
	periodicVestingTypeURL   = typeURL(&vestingtypes.PeriodicVestingAccount{})
	continuousVestingTypeURL = typeURL(&vestingtypes.ContinuousVestingAccount{})
	delayedVestingTypeURL    = typeURL(&vestingtypes.DelayedVestingAccount{})
	permanentLockedTypeURL   = typeURL(&vestingtypes.PermanentLockedAccount{})
	ethAccountTypeURL        = typeURL(&evmostypes.EthAccount{})
)

// UnpackBaseAccount decodes an account Any into the common base record. Standard, vesting and
// Ethermint style accounts are supported.
func UnpackBaseAccount(account *codectypes.Any) (*authtypes.BaseAccount, error) {
	if account == nil {
		return nil, errorsmod.Wrap(ErrEmptyResponse, "account")
	}

	var base *authtypes.BaseAccount
	switch account.TypeUrl {
	case baseAccountTypeURL:
		decoded := &authtypes.BaseAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = decoded

	case periodicVestingTypeURL:
		decoded := &vestingtypes.PeriodicVestingAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = vestingBase(decoded.BaseVestingAccount)

	case continuousVestingTypeURL:
		decoded := &vestingtypes.ContinuousVestingAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = vestingBase(decoded.BaseVestingAccount)

	case delayedVestingTypeURL:
		decoded := &vestingtypes.DelayedVestingAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = vestingBase(decoded.BaseVestingAccount)

	case permanentLockedTypeURL:
		decoded := &vestingtypes.PermanentLockedAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = vestingBase(decoded.BaseVestingAccount)

	case ethAccountTypeURL, injectiveEthAccountTypeURL:
		decoded := &evmostypes.EthAccount{}
		if err := decoded.Unmarshal(account.Value); err != nil {
			return nil, errorsmod.Wrapf(err, "decode %s", account.TypeUrl)
		}
		base = decoded.BaseAccount

	default:
		return nil, errorsmod.Wrap(ErrUnknownAccountType, account.TypeUrl)
	}

	if base == nil {
		return nil, errorsmod.Wrapf(ErrEmptyResponse, "%s without a base account", account.TypeUrl)
	}
	return base, nil
}

func vestingBase(vesting *vestingtypes.BaseVestingAccount) *authtypes.BaseAccount {
	if vesting == nil {
		return nil
	}
	return vesting.BaseAccount
}
