package form

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("form record not found")
	ErrSessionClosed = errors.New("form session closed")
	ErrTooLong       = errors.New("value exceeds length limit")
	ErrInvalidOption = errors.New("value is not an allowed option")
	ErrInvalidFormat = errors.New("value has invalid format")
	ErrUnknownField  = errors.New("unknown field")
	ErrRequired      = errors.New("field is required")
)

// FieldError ties a validation failure to a form field.
type FieldError struct {
	Field string
	Err   error
	Limit int
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrTooLong) && e.Limit > 0 {
		return fmt.Sprintf("%s: %v (max %d)", e.Field, e.Err, e.Limit)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

func tooLong(field string, limit int) error {
	return &FieldError{Field: field, Err: ErrTooLong, Limit: limit}
}

// missing joins one ErrRequired per empty field, nil when none is empty.
func missing(fields ...string) error {
	errs := make([]error, 0, len(fields))
	for _, f := range fields {
		errs = append(errs, fieldErr(f, ErrRequired))
	}
	return errors.Join(errs...)
}
