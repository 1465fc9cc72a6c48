package dicom

import (
	"errors"
	"fmt"

	"github.com/jpfielding/dcmcodec/pkg/dicom/charset"
)

var (
	// ErrMalformedFile reports a file structure problem. It is never ignored.
	ErrMalformedFile = errors.New("malformed DICOM file")
	// ErrUnsupportedCharacterSet reports a Specific Character Set with no known decoder
	ErrUnsupportedCharacterSet = charset.ErrUnsupported
	// ErrMultipleCharacterSets reports more than one Specific Character Set
	ErrMultipleCharacterSets = charset.ErrMultiple
)

// RecoverableError wraps a condition the reader can continue past when
// ReadOptions.IgnoreErrors is set
type RecoverableError struct {
	Err error
}

func (e *RecoverableError) Error() string {
	return e.Err.Error()
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

func recoverable(err error) error {
	return &RecoverableError{Err: err}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedFile, fmt.Sprintf(format, args...))
}
