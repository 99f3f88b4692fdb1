package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidState       = errors.New("operation is not valid for current status")
	ErrInvalidWinner      = errors.New("winner is not a party of the deal")
	ErrInvalidAddress     = errors.New("invalid withdraw address")
	ErrNotParty           = errors.New("account is not a party of the deal")
	ErrUnknownAccount     = errors.New("unknown account")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrUnknownDeal        = errors.New("unknown deal")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAccountSuspended   = errors.New("account suspended")
)

// ValidationError ошибка пользовательского ввода. Field указывает на поле, которое нужно исправить.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
