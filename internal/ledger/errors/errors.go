package errors

import "errors"

// Domain errors of the ledger. All of them signal a precondition violated by
// the caller, not a transient fault - they are returned unchanged and never
// retried.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCurrencyMismatch    = errors.New("transaction currency does not match account currency")
	ErrInvalidFilterRange  = errors.New("start date can't be greater than end date")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var ErrCategoryInUse = NewValidationError("category has transactions assigned and cannot be deleted")
var ErrCategoryTypeMismatch = NewValidationError("subcategory type must match the parent category type")
