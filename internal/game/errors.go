package game

import (
	"errors"
	"fmt"
)

// ErrInvariant marks a broken engine invariant. It is never a user error;
// callers stop the run instead of trying to recover.
var ErrInvariant = errors.New("invariant violated")

// ErrQuit is returned by an interactive strategy when the human asks to quit
var ErrQuit = errors.New("quit requested")

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}
