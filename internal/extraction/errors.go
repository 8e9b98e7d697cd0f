package extraction

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableDocument means the bytes are not a valid, complete PDF or DXF.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrResourceCreation means the temporary file backing a parse could not be prepared.
	ErrResourceCreation = errors.New("temporary file unavailable")
)

// Error describes why an extraction fell back to zero area.
// Its message is the diagnostic surfaced to users.
type Error struct {
	Format Format
	Kind   error
	Cause  error
}

func (e *Error) Error() string {
	if errors.Is(e.Kind, ErrResourceCreation) {
		return e.Cause.Error()
	}
	return fmt.Sprintf("unreadable %s document: %v", e.Format, e.Cause)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// classify wraps a parse failure, keeping resource failures distinct from bad input.
func classify(format Format, err error) error {
	var xe *Error
	if errors.As(err, &xe) {
		return err
	}
	kind := ErrUnreadableDocument
	if errors.Is(err, ErrResourceCreation) {
		kind = ErrResourceCreation
	}
	return &Error{Format: format, Kind: kind, Cause: err}
}
