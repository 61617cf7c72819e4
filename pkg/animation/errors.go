package animation

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownMode is returned when a mode string cannot be resolved.
	ErrUnknownMode = errors.New("animation: unknown mode")

	// ErrEmptySeed is returned when the seed image is empty.
	ErrEmptySeed = errors.New("animation: seed image is empty")

	// ErrSeedSize is returned when the seed image does not match the
	// configured output dimensions.
	ErrSeedSize = errors.New("animation: seed image dimensions do not match config")

	// ErrDuplicateFrame is returned when two schedule points or keyframes
	// share a frame index.
	ErrDuplicateFrame = errors.New("animation: duplicate frame index")
)

// SyntaxError reports a malformed token in a schedule string.
type SyntaxError struct {
	// Token is the offending token as it appeared in the input.
	Token string

	// Reason describes what was wrong with it.
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("animation: bad schedule token %q: %s", e.Token, e.Reason)
}

// GenerationError reports a synthesis failure tagged with the frame index
// that was being generated. Frames produced before the failure are kept;
// the caller decides whether a partial sequence is usable.
type GenerationError struct {
	Frame int
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("animation: generation failed at frame %d: %v", e.Frame, e.Err)
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}
