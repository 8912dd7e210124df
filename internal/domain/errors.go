package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrOrderNotFound     = wrap(ErrNotFound, "order not found")
	ErrStockNotFound     = wrap(ErrNotFound, "stock entry not found")
	ErrInsufficientStock = wrap(ErrConflict, "exit quantity exceeds quantity held")
)

type wrappedError struct {
	msg    string
	parent error
}

func wrap(parent error, msg string) error {
	return &wrappedError{msg: msg, parent: parent}
}

func (e *wrappedError) Error() string { return e.msg }

func (e *wrappedError) Unwrap() error { return e.parent }
