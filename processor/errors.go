package processor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the password does not meet the minimum length
	ErrInvalidInput = errors.New("invalid input")

	// ErrFormat is returned for payloads that are not in the share format
	ErrFormat = errors.New("malformed payload")

	// ErrDecryptionFailed covers both a wrong password and a corrupted payload;
	// the two cases cannot be told apart.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// FormatError describes why a payload could not be parsed.
// It matches both ErrFormat and ErrDecryptionFailed.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", ErrFormat, e.Reason)
}

// Is lets errors.Is match the sentinel errors
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat || target == ErrDecryptionFailed
}

func formatErrorf(format string, v ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, v...)}
}
