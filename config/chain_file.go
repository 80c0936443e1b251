package config

import (
	"fmt"
	"os"

	"github.com/tessellated-io/conveyor/cosmos/chain"
	"github.com/tessellated-io/conveyor/log"
	"gopkg.in/yaml.v2"
)

const chainFileHeader = "Chain configuration for conveyor"

// LoadChainFile reads a YAML chain file and validates it.
func LoadChainFile(path string) (*chain.Info, error) {
	expanded, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	info := &chain.Info{}
	if err := yaml.UnmarshalStrict(data, info); err != nil {
		return nil, fmt.Errorf("failed to parse chain file %s: %w", path, err)
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}
	return info, nil
}

// WriteChainFile writes info as a commented chain file, leaving an existing file untouched.
func WriteChainFile(path string, info *chain.Info, logger *log.Logger) error {
	return WriteYamlWithComments(info, chainFileHeader, path, logger)
}
