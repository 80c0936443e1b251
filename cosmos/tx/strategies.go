package tx

import (
	"regexp"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tessellated-io/conveyor/cosmos/util"
)

const (
	DefaultInsufficientFeeRetries = 1
	DefaultAccountSequenceRetries = 20
	DefaultTimeoutHeightRetries   = 2

	insufficientFeeGasBump = 1.2
)

// Decision is what to change before rebuilding a rejected transaction.
type Decision struct {
	// RefreshAccount reloads the account number and sequence from the node.
	RefreshAccount bool
	// GasBump multiplies the gas limit of the next attempt. Zero leaves it unchanged.
	GasBump float64
	// RequiredFees is the minimum the node reported, if it reported one.
	RequiredFees sdk.Coins
}

// RetryStrategy recognises one kind of rejection and says how to recover from it, at most
// MaxRetries times per broadcast.
type RetryStrategy struct {
	Name       string
	MaxRetries int
	Decide     func(rejection *RejectedError) (Decision, bool)
}

// DefaultStrategies are the built-in strategies in the order they are consulted.
func DefaultStrategies() []RetryStrategy {
	return []RetryStrategy{
		InsufficientFeeStrategy(DefaultInsufficientFeeRetries),
		AccountSequenceStrategy(DefaultAccountSequenceRetries),
		TimeoutHeightStrategy(DefaultTimeoutHeightRetries),
	}
}

// InsufficientFeeStrategy raises the fee to the minimum the node asked for, or bumps gas when the
// log does not say.
func InsufficientFeeStrategy(maxRetries int) RetryStrategy {
	return RetryStrategy{
		Name:       "insufficient_fee",
		MaxRetries: maxRetries,
		Decide: func(rejection *RejectedError) (Decision, bool) {
			if !IsInsufficientFee(rejection) {
				return Decision{}, false
			}

			required := RequiredFees(rejection.RawLog)
			if len(required) == 0 {
				return Decision{GasBump: insufficientFeeGasBump}, true
			}
			return Decision{RequiredFees: required}, true
		},
	}
}

// AccountSequenceStrategy reloads the sequence after a mismatch.
func AccountSequenceStrategy(maxRetries int) RetryStrategy {
	return RetryStrategy{
		Name:       "account_sequence",
		MaxRetries: maxRetries,
		Decide: func(rejection *RejectedError) (Decision, bool) {
			if !IsAccountSequenceMismatch(rejection) {
				return Decision{}, false
			}
			return Decision{RefreshAccount: true}, true
		},
	}
}

// TimeoutHeightStrategy rebuilds with a fresh timeout height. Every attempt reads the latest height,
// so no other change is needed.
func TimeoutHeightStrategy(maxRetries int) RetryStrategy {
	return RetryStrategy{
		Name:       "timeout_height",
		MaxRetries: maxRetries,
		Decide: func(rejection *RejectedError) (Decision, bool) {
			if !IsTimeoutHeight(rejection) {
				return Decision{}, false
			}
			return Decision{}, true
		},
	}
}

// IsGasPriceError reports the codes chains use for a fee below their minimum gas price.
func IsGasPriceError(codespace string, code uint32) bool {
	return (codespace == "sdk" && code == 13) || (codespace == "gaia" && code == 4)
}

func IsInsufficientFee(rejection *RejectedError) bool {
	return IsGasPriceError(rejection.Codespace, rejection.Code) || strings.Contains(strings.ToLower(rejection.RawLog), "insufficient fee")
}

func IsAccountSequenceMismatch(rejection *RejectedError) bool {
	if rejection.Codespace == "sdk" && rejection.Code == 32 {
		return true
	}
	return isSequenceMismatchLog(rejection.RawLog)
}

func IsTimeoutHeight(rejection *RejectedError) bool {
	if rejection.Codespace == "sdk" && rejection.Code == 30 {
		return true
	}
	return strings.Contains(strings.ToLower(rejection.RawLog), "timeout height")
}

func isSequenceMismatchLog(log string) bool {
	// Matches "account sequence mismatch, expected 5, got 4: incorrect account sequence" and its variants.
	return strings.Contains(strings.ToLower(log), "account sequence")
}

var (
	// "insufficient fees; got: 100uatom required: 5000uatom: insufficient fee"
	requiredFeesPattern = regexp.MustCompile(`required:\s*([0-9][^\s:]*)`)
	// Evmos, "(7000aevmos < 20000aevmos). Please increase the gas price"
	minGlobalFeePattern = regexp.MustCompile(`(\d+)([a-zA-Z][\w/]*)\)\. Please increase`)
)

// RequiredFees extracts the minimum fee a node printed in a rejection log, or nil.
func RequiredFees(log string) sdk.Coins {
	if matches := requiredFeesPattern.FindStringSubmatch(log); len(matches) > 1 {
		if coins, err := util.ParseCoinsFromLog(matches[1]); err == nil {
			return coins
		}
	}
	return extractMinGlobalFee(log)
}

func extractMinGlobalFee(log string) sdk.Coins {
	matches := minGlobalFeePattern.FindStringSubmatch(log)
	if len(matches) < 3 {
		return nil
	}

	coins, err := util.ParseCoinsFromLog(matches[1] + matches[2])
	if err != nil {
		return nil
	}
	return coins
}
