package domain

import (
	"errors"
	"fmt"
)

var (
	// Input errors
	ErrMalformedEntry = errors.New("malformed entry")
	ErrMissingAmount  = errors.New("missing amount")
	ErrInvalidHeader  = errors.New("invalid header")

	// Fund movement errors
	ErrDuplicateTransaction = errors.New("duplicate transaction id")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
	ErrAccountLocked        = errors.New("account is locked")

	// Operation errors
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrCrossClientOperation  = errors.New("transaction belongs to another client")
	ErrAccountMissing        = errors.New("account missing for stored transaction")
	ErrInvalidState          = errors.New("invalid transaction state for operation")
	ErrInsufficientHeldFunds = errors.New("insufficient held funds")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrMalformedEntry, "malformed_entry"},
	{ErrMissingAmount, "missing_amount"},
	{ErrInvalidHeader, "invalid_header"},
	{ErrDuplicateTransaction, "duplicate_transaction"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrAccountLocked, "account_locked"},
	{ErrTransactionNotFound, "transaction_not_found"},
	{ErrCrossClientOperation, "cross_client_operation"},
	{ErrAccountMissing, "account_missing"},
	{ErrInvalidState, "invalid_state"},
	{ErrInsufficientHeldFunds, "insufficient_held_funds"},
}

// ErrorCode returns a stable reason code for err, or "unknown".
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "unknown"
}

// EntryError ties a parse failure to its input line.
type EntryError struct {
	Line int
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// IsEntryError reports whether err is recoverable at the stream level.
func IsEntryError(err error) bool {
	var entryErr *EntryError
	return errors.As(err, &entryErr)
}
