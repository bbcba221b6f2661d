// internal/app/features/announcements/errors.go
package announcements

import "errors"

var (
	// ErrUnauthenticated is returned by mutating operations called without a caller.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrInvalidInput is matched by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound means no announcement matched the id.
	ErrNotFound = errors.New("announcement not found")
)

// ValidationError carries the single user-facing message for a rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

const (
	msgCreateRequired = "Title, message, and expiration required"
	msgNoUpdateFields = "No valid fields to update"
)
