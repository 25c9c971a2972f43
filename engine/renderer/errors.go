package renderer

import (
	"errors"
	"fmt"
)

// UnsupportedError reports that the graphics device cannot run the engine.
// It is returned by window creation, context negotiation, and capability probing,
// and is meant to be shown to the user before exiting.
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string {
	return e.Msg
}

func unsupported(format string, args ...any) error {
	return &UnsupportedError{Msg: fmt.Sprintf(format, args...)}
}

// IsUnsupported reports whether err, or any error it wraps, is an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

var (
	// ErrContextBusy is returned when the graphics context is already bound to another goroutine.
	ErrContextBusy = errors.New("graphics context is owned by another goroutine")

	// ErrContextNotOwned is returned when releasing a context lease that does not own the context.
	ErrContextNotOwned = errors.New("graphics context is not owned by this lease")

	// ErrInvalidState is returned for lifecycle calls made in the wrong renderer state.
	ErrInvalidState = errors.New("invalid renderer state")
)
