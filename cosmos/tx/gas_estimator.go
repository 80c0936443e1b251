package tx

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/cosmos/rpc"
	"github.com/tessellated-io/conveyor/crypto"
	"github.com/tessellated-io/conveyor/log"
)

const (
	// Gas below bufferThreshold gets the larger buffer.
	smallTxGasBuffer = 1.4
	gasBuffer        = 1.3
	bufferThreshold  = 200_000

	maxDecimals = 18
)

// gasPriceEpsilon is added to every gas price bid.
var gasPriceEpsilon = sdkmath.LegacyNewDecWithPrec(1, 5)

// GasConfig tunes estimation and the fee payer balance check.
type GasConfig struct {
	// GasBuffer overrides the size-dependent multiplier.
	GasBuffer *float64
	// MinGas is a floor for the gas limit.
	MinGas *uint64

	DisableBalanceAssertion  bool
	DisableManualInteraction bool

	// PromptIn and PromptOut carry the operator conversation when a balance is short.
	PromptIn  io.Reader
	PromptOut io.Writer
}

// GasEstimator turns simulated gas into a gas limit and fee, and checks the payer can afford it.
type GasEstimator struct {
	chain  *chain.Info
	client rpc.NodeClient
	signer crypto.Signer
	config GasConfig
	logger *log.Logger

	promptLock sync.Mutex
	prompt     *bufio.Reader
}

func NewGasEstimator(info *chain.Info, client rpc.NodeClient, signer crypto.Signer, config GasConfig, logger *log.Logger) (*GasEstimator, error) {
	if _, err := info.FeeToken(); err != nil {
		return nil, err
	}

	estimator := &GasEstimator{
		chain:  info,
		client: client,
		signer: signer,
		config: config,
		logger: logger.ApplyPrefix("⛽️ "),
	}
	if config.PromptIn != nil && config.PromptOut != nil {
		estimator.prompt = bufio.NewReader(config.PromptIn)
	}
	return estimator, nil
}

// Estimate signs a zero fee copy of the transaction and returns the gas the node simulated for it.
func (e *GasEstimator) Estimate(ctx context.Context, body *txtypes.TxBody, account AccountInfo) (uint64, error) {
	pubKey, err := PackPublicKey(e.signer.PublicKey(), e.chain.Bech32Prefix)
	if err != nil {
		return 0, err
	}

	authInfo := BuildAuthInfo(pubKey, account.Sequence, Fee{}, "")
	signDoc, err := BuildSignDoc(body, authInfo, e.chain.ChainID, account.AccountNumber)
	if err != nil {
		return 0, err
	}

	trial, err := SignTx(e.signer, signDoc)
	if err != nil {
		return 0, err
	}

	gasUsed, err := e.client.Simulate(ctx, trial.Bytes)
	if err != nil {
		return 0, err
	}

	e.logger.Debug("simulated transaction", "gas_used", gasUsed, "sequence", account.Sequence)
	return gasUsed, nil
}

// Multiplier is the buffer applied to a raw simulation result.
func (e *GasEstimator) Multiplier(rawGas uint64) float64 {
	if e.config.GasBuffer != nil {
		return *e.config.GasBuffer
	}
	if rawGas < bufferThreshold {
		return smallTxGasBuffer
	}
	return gasBuffer
}

// Buffer turns simulated gas into the gas limit and fee to sign with.
func (e *GasEstimator) Buffer(rawGas uint64) (Fee, error) {
	return e.BufferWithBump(rawGas, 1)
}

// BufferWithBump is Buffer with an additional factor on the gas limit, used after fee rejections.
func (e *GasEstimator) BufferWithBump(rawGas uint64, bump float64) (Fee, error) {
	gas := uint64(math.Round(float64(rawGas) * e.Multiplier(rawGas) * bump))
	if e.config.MinGas != nil && *e.config.MinGas > gas {
		gas = *e.config.MinGas
	}

	amount, err := e.FeeFor(gas)
	if err != nil {
		return Fee{}, err
	}

	return Fee{GasLimit: gas, Amount: amount}, nil
}

// FeeFor prices a gas limit in the chain's first fee token, truncating fractions.
func (e *GasEstimator) FeeFor(gas uint64) (sdk.Coin, error) {
	token, err := e.chain.FeeToken()
	if err != nil {
		return sdk.Coin{}, err
	}

	price, err := decFromFloat(token.GasPrice())
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("invalid gas price for %s: %w", token.Denom, err)
	}

	amount := sdkmath.LegacyNewDecFromInt(sdkmath.NewIntFromUint64(gas)).Mul(price.Add(gasPriceEpsilon)).TruncateInt()
	return sdk.Coin{Denom: token.Denom, Amount: amount}, nil
}

// AssertBalance checks address can pay fee. When the operator may be asked, a short balance
// prompts them to top up and is checked again until they decline.
func (e *GasEstimator) AssertBalance(ctx context.Context, address string, fee sdk.Coin) error {
	if e.config.DisableBalanceAssertion {
		return nil
	}

	for {
		balance, err := e.client.GetBalance(ctx, address, fee.Denom)
		if err != nil {
			return err
		}
		if balance.Amount.GTE(fee.Amount) {
			return nil
		}

		insufficient := &InsufficientBalanceError{Address: address, Needed: fee, Available: *balance}
		if e.config.DisableManualInteraction || e.prompt == nil {
			return insufficient
		}

		e.logger.Warn("fee payer balance too low", "address", address, "needed", fee.String(), "available", balance.String())
		confirmed, err := e.confirm(insufficient)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("%w: %w", ErrManualInteractionDeclined, insufficient)
		}
	}
}

// HasEnoughBalanceForGas checks address can pay for gas units at the configured price.
func (e *GasEstimator) HasEnoughBalanceForGas(ctx context.Context, address string, gas uint64) error {
	fee, err := e.FeeFor(gas)
	if err != nil {
		return err
	}
	return e.AssertBalance(ctx, address, fee)
}

func (e *GasEstimator) confirm(insufficient *InsufficientBalanceError) (bool, error) {
	e.promptLock.Lock()
	defer e.promptLock.Unlock()

	_, err := fmt.Fprintf(e.config.PromptOut, "%s.\nTop up the account and enter 'y' to check again, anything else aborts: ", insufficient)
	if err != nil {
		return false, err
	}

	answer, err := e.prompt.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// decFromFloat converts through the shortest decimal representation so configured prices stay exact.
func decFromFloat(f float64) (sdkmath.LegacyDec, error) {
	formatted := strconv.FormatFloat(f, 'f', -1, 64)
	if dot := strings.IndexByte(formatted, '.'); dot >= 0 && len(formatted)-dot-1 > maxDecimals {
		formatted = strconv.FormatFloat(f, 'f', maxDecimals, 64)
	}
	return sdkmath.LegacyNewDecFromStr(formatted)
}
