package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Engine error kinds. Handlers map these to HTTP statuses; nothing in
// this package writes responses.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicate           = errors.New("record already exists")
	ErrInvalidState        = errors.New("request is not pending")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrTransient           = errors.New("temporary storage failure")
)

// ValidationError reports malformed command input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PolicyBlockedError reports a withdrawal refused by account flags or
// account status. Message is the investor-facing explanation.
type PolicyBlockedError struct {
	Message string
}

func (e *PolicyBlockedError) Error() string {
	return e.Message
}

// storageErr normalizes persistence failures: missing rows become
// ErrNotFound, unique-key violations become ErrDuplicate and
// deadline/cancellation failures become ErrTransient so callers know a
// retry is safe. Duplicate-key translation relies on the gorm
// TranslateError option being set on the connection.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	default:
		return err
	}
}
