package llm

import (
	"errors"
	"fmt"
)

// ErrNoStructuredOutput signals that the model call succeeded at the
// transport level but produced no usable structured object.
var ErrNoStructuredOutput = errors.New("no structured output returned")

// GenerationError marks a hard failure of the model boundary: the flow that
// requested a structured object did not get one. Callers surface this as a
// generic "try again" and must not assume default values.
type GenerationError struct {
	Flow string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %v", e.Flow, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
