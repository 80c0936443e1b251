package util_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/util"
)

func TestExtractCoin(t *testing.T) {
	coins := []sdk.Coin{sdk.NewInt64Coin("uatom", 5), sdk.NewInt64Coin("ufoo", 7)}

	coin, err := util.ExtractCoin("UFOO", coins)
	require.NoError(t, err)
	assert.Equal(t, int64(7), coin.Amount.Int64())

	_, err = util.ExtractCoin("ubar", coins)
	require.Error(t, err)
}

func TestParseCoinsFromLog(t *testing.T) {
	coins, err := util.ParseCoinsFromLog("5000uatom,12.5ufoo")
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "5000uatom", coins[0].String())
	assert.Equal(t, "13ufoo", coins[1].String())

	_, err = util.ParseCoinsFromLog("")
	require.Error(t, err)
}
