package util

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// ParseAmount parses a base-10 integer amount of base denom units. Decimals are rejected,
// amounts are always in the smallest unit.
func ParseAmount(raw string) (sdkmath.Int, error) {
	trimmed := strings.TrimSpace(raw)
	amount, ok := sdkmath.NewIntFromString(trimmed)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("unexpected non-integer amount: %q", raw)
	}
	if amount.IsNegative() {
		return sdkmath.Int{}, fmt.Errorf("amount must not be negative: %q", raw)
	}
	return amount, nil
}
