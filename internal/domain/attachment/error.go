package attachment

import (
	"errors"
	"fmt"
)

var (
	ErrTooLarge      = errors.New("attachment exceeds size limit")
	ErrEmptyDataURI  = errors.New("empty data uri")
	ErrInvalidPrefix = errors.New("invalid data uri prefix")
	ErrMissingComma  = errors.New("invalid data uri payload")
	ErrNotBase64     = errors.New("data uri must be base64")
	ErrMissingMime   = errors.New("missing data uri mime type")
)

// ReadError means the selected file could not be read. Submission must stop
// without writing anything.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read attachment %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// DecodeError means a stored data URI could not be turned back into a file.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode attachment: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
