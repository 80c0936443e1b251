package config

import (
	"fmt"
	os2 "os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cometbft/cometbft/libs/os"
	"github.com/tessellated-io/conveyor/log"
)

// ReadFile expands a short path (ex. ~/.conveyor/chain.yaml) and verifies the file exists.
func ReadFile(configFile string) (string, error) {
	expandedConfigFile := ExpandHomeDir(configFile)
	if !os.FileExists(expandedConfigFile) {
		return "", fmt.Errorf("failed to load config file at: %s", configFile)
	}
	return expandedConfigFile, nil
}

func CreateDirectoryIfNeeded(configurationDirectory string, logger *log.Logger) error {
	expanded := ExpandHomeDir(configurationDirectory)
	exists, err := folderExists(expanded)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	err = os2.MkdirAll(expanded, 0o755)
	if err != nil {
		return err
	}

	logger.Info("created configuration directory", "configuration_dir", configurationDirectory)

	return nil
}

// SafeWrite writes contents to file unless it already exists.
func SafeWrite(file string, contents []byte, logger *log.Logger) error {
	expanded := ExpandHomeDir(file)
	if os.FileExists(expanded) {
		logger.Warn("skipping overwriting existing file", "file", expanded)
		return nil
	}

	if err := CreateDirectoryIfNeeded(filepath.Dir(expanded), logger); err != nil {
		return err
	}

	err := os.WriteFile(expanded, contents, 0o644)
	if err != nil {
		return err
	}
	logger.Info("wrote file", "file", expanded)
	return nil
}

// AtomicWrite replaces file with contents via a rename, so readers never observe a partial write.
func AtomicWrite(file string, contents []byte) error {
	expanded := ExpandHomeDir(file)
	if err := os2.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return err
	}

	tmp := expanded + ".tmp"
	if err := os.WriteFile(tmp, contents, 0o644); err != nil {
		return err
	}
	return os2.Rename(tmp, expanded)
}

func ExpandHomeDir(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		panic(fmt.Errorf("failed to get user's home directory: %v", err))
	}
	return strings.Replace(path, "~", usr.HomeDir, 1)
}

func FileExists(filePath string) bool {
	return os.FileExists(ExpandHomeDir(filePath))
}

func folderExists(folderPath string) (bool, error) {
	fileInfo, err := os2.Stat(folderPath)
	if err != nil {
		if os2.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return fileInfo.IsDir(), nil
}
