package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const EnvPrefix = "CONVEYOR"

const (
	keyDisableBalanceAssertion  = "disable_balance_assertion"
	keyGasBuffer                = "gas_buffer"
	keyMinGas                   = "min_gas"
	keyDisableManualInteraction = "disable_manual_interaction"
	keyLogLevel                 = "log_level"
	keyStateFile                = "state_file"
	keyDeploymentID             = "deployment_id"
	keyMnemonic                 = "mnemonic"
)

// Toggles are the environment level switches the pipeline honours.
type Toggles struct {
	DisableBalanceAssertion  bool
	DisableManualInteraction bool

	// GasBuffer overrides the gas multiplier when set.
	GasBuffer *float64
	// MinGas floors the buffered gas when set.
	MinGas *uint64

	LogLevel     string
	StateFile    string
	DeploymentID string
	Mnemonic     string
}

// LoadToggles reads CONVEYOR_* environment variables.
func LoadToggles() (*Toggles, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyStateFile, "~/.conveyor/state.json")
	v.SetDefault(keyDeploymentID, "default")

	return TogglesFromViper(v)
}

// TogglesFromViper parses toggles from an already configured viper instance.
func TogglesFromViper(v *viper.Viper) (*Toggles, error) {
	toggles := &Toggles{
		LogLevel:     v.GetString(keyLogLevel),
		StateFile:    v.GetString(keyStateFile),
		DeploymentID: v.GetString(keyDeploymentID),
		Mnemonic:     v.GetString(keyMnemonic),
	}

	var err error
	if toggles.DisableBalanceAssertion, err = parseBool(v, keyDisableBalanceAssertion); err != nil {
		return nil, err
	}
	if toggles.DisableManualInteraction, err = parseBool(v, keyDisableManualInteraction); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(v.GetString(keyGasBuffer)); raw != "" {
		buffer, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_%s: %w", EnvPrefix, strings.ToUpper(keyGasBuffer), err)
		}
		if buffer <= 0 {
			return nil, fmt.Errorf("invalid %s_%s: must be positive, got %v", EnvPrefix, strings.ToUpper(keyGasBuffer), buffer)
		}
		toggles.GasBuffer = &buffer
	}

	if raw := strings.TrimSpace(v.GetString(keyMinGas)); raw != "" {
		minGas, err := cast.ToUint64E(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s_%s: %w", EnvPrefix, strings.ToUpper(keyMinGas), err)
		}
		toggles.MinGas = &minGas
	}

	return toggles, nil
}

func parseBool(v *viper.Viper, key string) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return false, nil
	}
	parsed, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s_%s: %w", EnvPrefix, strings.ToUpper(key), err)
	}
	return parsed, nil
}
