package util

import (
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExtractCoin finds the coin with the target denom, ignoring case.
func ExtractCoin(targetDenom string, coins []sdk.Coin) (*sdk.Coin, error) {
	for _, coin := range coins {
		if strings.EqualFold(targetDenom, coin.Denom) {
			found := coin
			return &found, nil
		}
	}
	return nil, fmt.Errorf("unable to find denom: %s", targetDenom)
}

// ParseCoinsFromLog parses a comma separated coin list such as "5000uatom,10ufoo" as nodes print
// them in rejection logs. Denoms may contain '/' for IBC tokens.
func ParseCoinsFromLog(raw string) ([]sdk.Coin, error) {
	var coins []sdk.Coin
	for _, part := range strings.Split(strings.TrimSpace(raw), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		decCoin, err := sdk.ParseDecCoin(part)
		if err != nil {
			return nil, fmt.Errorf("failed to parse coin %q: %w", part, err)
		}
		// Round fractional minimums up so the resubmitted fee still clears them.
		coins = append(coins, sdk.NewCoin(decCoin.Denom, decCoin.Amount.Ceil().TruncateInt()))
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("no coins in %q", raw)
	}
	return coins, nil
}
