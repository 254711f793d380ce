package tracing

import (
	"errors"
	"fmt"
)

var (
	// ErrPatternSyntax matches every *PatternError via errors.Is.
	ErrPatternSyntax = errors.New("invalid target pattern")

	// ErrPatternIndex is returned when removing a pattern that does not exist.
	ErrPatternIndex = errors.New("target pattern index out of range")
)

// PatternError reports glob text that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid target pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

func (e *PatternError) Is(target error) bool { return target == ErrPatternSyntax }
