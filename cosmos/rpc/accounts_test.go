package rpc_test

import (
	"errors"
	"testing"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	vestingtypes "github.com/cosmos/cosmos-sdk/x/auth/vesting/types"
	"github.com/cosmos/gogoproto/proto"
	evmostypes "github.com/evmos/evmos/v14/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func pack(t *testing.T, typeURL string, msg proto.Marshaler) *codectypes.Any {
	t.Helper()

	bz, err := msg.Marshal()
	require.NoError(t, err)
	return &codectypes.Any{TypeUrl: typeURL, Value: bz}
}

func TestUnpackBaseAccount(t *testing.T) {
	base := &authtypes.BaseAccount{Address: "cosmos1abc", AccountNumber: 7, Sequence: 12}
	baseVesting := &vestingtypes.BaseVestingAccount{BaseAccount: base, OriginalVesting: sdk.NewCoins(sdk.NewInt64Coin("uatom", 1))}

	cases := map[string]*codectypes.Any{
		"base":               pack(t, "/cosmos.auth.v1beta1.BaseAccount", base),
		"periodic vesting":   pack(t, "/cosmos.vesting.v1beta1.PeriodicVestingAccount", &vestingtypes.PeriodicVestingAccount{BaseVestingAccount: baseVesting, StartTime: 1}),
		"continuous vesting": pack(t, "/cosmos.vesting.v1beta1.ContinuousVestingAccount", &vestingtypes.ContinuousVestingAccount{BaseVestingAccount: baseVesting, StartTime: 1}),
		"delayed vesting":    pack(t, "/cosmos.vesting.v1beta1.DelayedVestingAccount", &vestingtypes.DelayedVestingAccount{BaseVestingAccount: baseVesting}),
		"permanent locked":   pack(t, "/cosmos.vesting.v1beta1.PermanentLockedAccount", &vestingtypes.PermanentLockedAccount{BaseVestingAccount: baseVesting}),
		"ethermint":          pack(t, "/ethermint.types.v1.EthAccount", &evmostypes.EthAccount{BaseAccount: base, CodeHash: "0xc5d2"}),
		"injective":          pack(t, "/injective.types.v1beta1.EthAccount", &evmostypes.EthAccount{BaseAccount: base}),
	}

	for name, account := range cases {
		t.Run(name, func(t *testing.T) {
			unpacked, err := rpc.UnpackBaseAccount(account)
			require.NoError(t, err)
			assert.Equal(t, "cosmos1abc", unpacked.Address)
			assert.Equal(t, uint64(7), unpacked.AccountNumber)
			assert.Equal(t, uint64(12), unpacked.Sequence)
		})
	}
}

func TestUnpackBaseAccount_Errors(t *testing.T) {
	_, err := rpc.UnpackBaseAccount(nil)
	require.ErrorIs(t, err, rpc.ErrEmptyResponse)

	_, err = rpc.UnpackBaseAccount(&codectypes.Any{TypeUrl: "/cosmos.auth.v1beta1.ModuleAccount"})
	require.ErrorIs(t, err, rpc.ErrUnknownAccountType)

	_, err = rpc.UnpackBaseAccount(pack(t, "/cosmos.vesting.v1beta1.DelayedVestingAccount", &vestingtypes.DelayedVestingAccount{}))
	require.ErrorIs(t, err, rpc.ErrEmptyResponse)

	_, err = rpc.UnpackBaseAccount(&codectypes.Any{TypeUrl: "/cosmos.auth.v1beta1.BaseAccount", Value: []byte{0xff, 0xff}})
	require.Error(t, err)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, rpc.IsNotFound(status.Error(codes.NotFound, "tx not found: ABC")))
	assert.True(t, rpc.IsNotFound(status.Error(codes.Unknown, "code 8: not found")))
	assert.True(t, rpc.IsNotFound(errors.New("tx (ABC) not found")))
	assert.False(t, rpc.IsNotFound(status.Error(codes.Unavailable, "connection refused")))
	assert.False(t, rpc.IsNotFound(status.Error(codes.Unknown, "decoding failure")))
	assert.False(t, rpc.IsNotFound(nil))
}
