package errors

import (
	stderrors "errors"

	"github.com/mezonai/mmn-runtime/balances"
	"github.com/mezonai/mmn-runtime/jsonx"
	"github.com/mezonai/mmn-runtime/runtime"
)

// DispatchErrorCode is the transport-level name of a dispatch failure
type DispatchErrorCode string

const (
	ErrCodeInternal DispatchErrorCode = "internal_error"

	// Validation errors
	ErrCodeInvalidRequest DispatchErrorCode = "invalid_request"
	ErrCodeInvalidAddress DispatchErrorCode = "invalid_address"
	ErrCodeInvalidArgs    DispatchErrorCode = "invalid_args"
	ErrCodeUnknownCall    DispatchErrorCode = "unknown_call"

	// Module errors
	ErrCodeInsufficientFunds DispatchErrorCode = "insufficient_funds"
	ErrCodeOverflow          DispatchErrorCode = "overflow"

	// Block errors
	ErrCodeBlockNumberMismatch DispatchErrorCode = "block_number_mismatch"
	ErrCodeStateCommit         DispatchErrorCode = "state_commit_failed"
)

// Error message constants - user-friendly and concise
const (
	ErrMsgInternal            = "Server error, please try again"
	ErrMsgInvalidRequest      = "Request format is invalid"
	ErrMsgInvalidAddress      = "Wallet address is invalid"
	ErrMsgInvalidArgs         = "Call arguments are invalid"
	ErrMsgUnknownCall         = "Call is not supported by this runtime"
	ErrMsgInsufficientFunds   = "Not enough balance in your wallet"
	ErrMsgOverflow            = "Recipient balance would exceed the maximum"
	ErrMsgBlockNumberMismatch = "Block number does not follow the current block"
	ErrMsgStateCommit         = "Block was applied but state could not be persisted"
)

// DispatchError represents a standardized dispatch error
type DispatchError struct {
	Code    DispatchErrorCode `json:"code"`
	Message string            `json:"message"`
}

// Error implements the error interface
func (e *DispatchError) Error() string {
	err, _ := jsonx.Marshal(DispatchError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// NewError creates a new DispatchError and returns it as error interface
func NewError(code DispatchErrorCode, message string) error {
	return &DispatchError{
		Code:    code,
		Message: message,
	}
}

// CodeOf classifies an error returned by the runtime or one of its pallets
func CodeOf(err error) DispatchErrorCode {
	var de *DispatchError
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &de):
		return de.Code
	case stderrors.Is(err, balances.ErrInsufficientFunds):
		return ErrCodeInsufficientFunds
	case stderrors.Is(err, balances.ErrOverflow):
		return ErrCodeOverflow
	case stderrors.Is(err, runtime.ErrUnknownCall):
		return ErrCodeUnknownCall
	case stderrors.Is(err, runtime.ErrInvalidArgs):
		return ErrCodeInvalidArgs
	case stderrors.Is(err, runtime.ErrBlockNumberMismatch):
		return ErrCodeBlockNumberMismatch
	default:
		return ErrCodeInternal
	}
}

var messages = map[DispatchErrorCode]string{
	ErrCodeInternal:            ErrMsgInternal,
	ErrCodeInvalidRequest:      ErrMsgInvalidRequest,
	ErrCodeInvalidAddress:      ErrMsgInvalidAddress,
	ErrCodeInvalidArgs:         ErrMsgInvalidArgs,
	ErrCodeUnknownCall:         ErrMsgUnknownCall,
	ErrCodeInsufficientFunds:   ErrMsgInsufficientFunds,
	ErrCodeOverflow:            ErrMsgOverflow,
	ErrCodeBlockNumberMismatch: ErrMsgBlockNumberMismatch,
	ErrCodeStateCommit:         ErrMsgStateCommit,
}

// FromDispatch translates a runtime error into a DispatchError, nil stays nil
func FromDispatch(err error) *DispatchError {
	if err == nil {
		return nil
	}
	var de *DispatchError
	if stderrors.As(err, &de) {
		return de
	}
	code := CodeOf(err)
	return &DispatchError{Code: code, Message: messages[code]}
}
