package util

import (
	"errors"
	"fmt"
)

func InterfaceToError(errorInterface interface{}) error {
	if err, ok := errorInterface.(error); ok {
		return err
	}

	if stringifiedErr, ok := errorInterface.(string); ok {
		return errors.New(stringifiedErr)
	}

	return fmt.Errorf("recovered from a panic: %v", errorInterface)
}

// RecoverInto is deferred by goroutines that must report a panic as an error instead of crashing.
func RecoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %w", InterfaceToError(r))
	}
}
