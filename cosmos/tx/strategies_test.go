package tx_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellated-io/conveyor/cosmos/tx"
)

func TestClassification(t *testing.T) {
	cases := []struct {
		name      string
		rejection *tx.RejectedError
		strategy  string
	}{
		{
			name:      "insufficient fee by code",
			rejection: &tx.RejectedError{Codespace: "sdk", Code: 13, RawLog: "insufficient fees; got: 1ustake required: 2ustake: insufficient fee"},
			strategy:  "insufficient_fee",
		},
		{
			name:      "gaia global fee",
			rejection: &tx.RejectedError{Codespace: "gaia", Code: 4, RawLog: "fee not provided"},
			strategy:  "insufficient_fee",
		},
		{
			name:      "sequence mismatch by code",
			rejection: &tx.RejectedError{Codespace: "sdk", Code: 32, RawLog: "account sequence mismatch, expected 5, got 4: incorrect account sequence"},
			strategy:  "account_sequence",
		},
		{
			name:      "sequence mismatch by log",
			rejection: &tx.RejectedError{Codespace: "evm", Code: 99, RawLog: "account sequence (expected 5, got 4)"},
			strategy:  "account_sequence",
		},
		{
			name:      "timeout height by code",
			rejection: &tx.RejectedError{Codespace: "sdk", Code: 30, RawLog: "block height: 61, timeout height: 50: tx timeout height"},
			strategy:  "timeout_height",
		},
		{
			name:      "fee strategy is consulted first",
			rejection: &tx.RejectedError{Codespace: "sdk", Code: 13, RawLog: "insufficient fee with account sequence in the log"},
			strategy:  "insufficient_fee",
		},
		{
			name:      "unrelated rejection",
			rejection: &tx.RejectedError{Codespace: "sdk", Code: 5, RawLog: "0ustake is smaller than 10ustake: insufficient funds"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			matched := ""
			for _, strategy := range tx.DefaultStrategies() {
				if _, found := strategy.Decide(c.rejection); found {
					matched = strategy.Name
					break
				}
			}
			assert.Equal(t, c.strategy, matched)
		})
	}
}

func TestDefaultStrategies_Ceilings(t *testing.T) {
	strategies := tx.DefaultStrategies()
	require.Len(t, strategies, 3)

	assert.Equal(t, "insufficient_fee", strategies[0].Name)
	assert.Equal(t, 1, strategies[0].MaxRetries)
	assert.Equal(t, "account_sequence", strategies[1].Name)
	assert.Equal(t, 20, strategies[1].MaxRetries)
	assert.Equal(t, "timeout_height", strategies[2].Name)
	assert.Equal(t, 2, strategies[2].MaxRetries)
}

func TestInsufficientFeeStrategy_Decision(t *testing.T) {
	strategy := tx.InsufficientFeeStrategy(1)

	decision, found := strategy.Decide(&tx.RejectedError{Codespace: "sdk", Code: 13, RawLog: "insufficient fees; got: 5252ustake required: 9000ustake: insufficient fee"})
	require.True(t, found)
	assert.Equal(t, sdk.Coins{sdk.NewInt64Coin("ustake", 9000)}, decision.RequiredFees)
	assert.Zero(t, decision.GasBump)

	decision, found = strategy.Decide(&tx.RejectedError{Codespace: "sdk", Code: 13, RawLog: "insufficient fee"})
	require.True(t, found)
	assert.Empty(t, decision.RequiredFees)
	assert.Equal(t, 1.2, decision.GasBump)
}

func TestAccountSequenceStrategy_RefreshesAccount(t *testing.T) {
	decision, found := tx.AccountSequenceStrategy(3).Decide(&tx.RejectedError{Codespace: "sdk", Code: 32})
	require.True(t, found)
	assert.True(t, decision.RefreshAccount)
}

func TestRequiredFees(t *testing.T) {
	cases := []struct {
		log      string
		expected sdk.Coins
	}{
		{
			log:      "insufficient fees; got: 100uatom required: 5000uatom: insufficient fee",
			expected: sdk.Coins{sdk.NewInt64Coin("uatom", 5000)},
		},
		{
			log:      "insufficient fees; got: 1ujuno required: 1500.2ujuno,10uatom: insufficient fee",
			expected: sdk.Coins{sdk.NewInt64Coin("ujuno", 1501), sdk.NewInt64Coin("uatom", 10)},
		},
		{
			log:      "provided fee < minimum global fee (7000aevmos < 20000aevmos). Please increase the gas price.: insufficient fee",
			expected: sdk.Coins{sdk.NewInt64Coin("aevmos", 20000)},
		},
		{
			log: "insufficient fee",
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, tx.RequiredFees(c.log), c.log)
	}
}
