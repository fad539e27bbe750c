package errors

import (
	"fmt"
)

// ErrorCode represents the category of a faucet failure
type ErrorCode string

const (
	// ErrCodeValidation indicates a malformed request, address or an amount above the ceiling
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeConfig indicates a deployment defect such as an unparsable program id
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeLedger indicates a failed lookup, blockhash fetch, signing, submission or confirmation
	ErrCodeLedger ErrorCode = "LEDGER"

	// ErrCodePrecondition indicates the operator token account is missing or empty
	ErrCodePrecondition ErrorCode = "PRECONDITION"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Stage names the pipeline step a failure happened in
type Stage string

const (
	StageParse         Stage = "parse"
	StageLimit         Stage = "limit"
	StageConvert       Stage = "convert"
	StageOperatorCheck Stage = "operator_check"
	StageDerive        Stage = "derive"
	StageLookup        Stage = "lookup"
	StageBuild         Stage = "build"
	StageBlockhash     Stage = "blockhash"
	StageSign          Stage = "sign"
	StageSubmit        Stage = "submit"
	StageConfirm       Stage = "confirm"
)

// FaucetError represents a classified failure of an airdrop request
type FaucetError struct {
	Code    ErrorCode              `json:"code"`
	Stage   Stage                  `json:"stage,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// NewFaucetError creates a new FaucetError
func NewFaucetError(code ErrorCode, stage Stage, message string, cause error) *FaucetError {
	return &FaucetError{
		Code:    code,
		Stage:   stage,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *FaucetError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Stage != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Stage, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying cause
func (e *FaucetError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *FaucetError) WithContext(key string, value interface{}) *FaucetError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the failure points at the deployment rather than the request.
func (e *FaucetError) IsFatal() bool {
	switch e.Code {
	case ErrCodeConfig, ErrCodePrecondition, ErrCodeInternal:
		return true
	default:
		return false
	}
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(stage Stage, message string, cause error) *FaucetError {
	return NewFaucetError(ErrCodeValidation, stage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(stage Stage, message string, cause error) *FaucetError {
	return NewFaucetError(ErrCodeConfig, stage, message, cause)
}

// NewLedgerError creates a ledger error
func NewLedgerError(stage Stage, message string, cause error) *FaucetError {
	return NewFaucetError(ErrCodeLedger, stage, message, cause)
}

// NewPreconditionError creates a precondition error
func NewPreconditionError(message string, cause error) *FaucetError {
	return NewFaucetError(ErrCodePrecondition, StageOperatorCheck, message, cause)
}

// NewInternalError creates an internal error
func NewInternalError(stage Stage, message string, cause error) *FaucetError {
	return NewFaucetError(ErrCodeInternal, stage, message, cause)
}
