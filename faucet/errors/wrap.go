package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WrapFaucetError classifies err unless it already carries a classification
func WrapFaucetError(err error, code ErrorCode, stage Stage, message string) *FaucetError {
	if err == nil {
		return nil
	}

	var faucetErr *FaucetError
	if errors.As(err, &faucetErr) {
		faucetErr.WithContext("wrapped_message", message)
		if faucetErr.Stage == "" {
			faucetErr.Stage = stage
		}
		return faucetErr
	}

	return NewFaucetError(code, stage, message, err)
}

// Is checks if an error is of a specific type
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As checks if an error can be assigned to a target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsCode checks if an error is a FaucetError with specific code
func IsCode(err error, code ErrorCode) bool {
	var faucetErr *FaucetError
	if errors.As(err, &faucetErr) {
		return faucetErr.Code == code
	}
	return false
}

// CodeOf returns the classification of err, ErrCodeInternal when unclassified
func CodeOf(err error) ErrorCode {
	var faucetErr *FaucetError
	if errors.As(err, &faucetErr) {
		return faucetErr.Code
	}
	return ErrCodeInternal
}

// StageOf returns the stage recorded on err, if any
func StageOf(err error) Stage {
	var faucetErr *FaucetError
	if errors.As(err, &faucetErr) {
		return faucetErr.Stage
	}
	return ""
}
