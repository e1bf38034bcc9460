package omr

import (
	"fmt"
	"strconv"
	"strings"
)

// InputError reports a sheet image that could not be read or decoded.
// It wraps the underlying I/O or decode error.
type InputError struct {
	// Path is the source file path, or "" when the image came from a
	// stream such as an HTTP upload.
	Path string

	// Err is the underlying cause.
	Err error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sheet image: %v", e.Err)
	}
	return fmt.Sprintf("sheet image %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ConfigurationError reports a grid or answer-key configuration that
// cannot grade the requested sheet, such as a key with missing entries
// or labels outside the option set. Evaluation never proceeds on a bad
// configuration; there are no partial results.
type ConfigurationError struct {
	// Reason describes the defect.
	Reason string

	// Questions lists the affected question numbers in ascending order.
	// Empty when the defect is not tied to specific questions.
	Questions []int
}

func (e *ConfigurationError) Error() string {
	if len(e.Questions) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: questions %s", e.Reason, joinQuestions(e.Questions))
}

// joinQuestions renders question numbers as "1, 2, 3".
func joinQuestions(questions []int) string {
	parts := make([]string, len(questions))
	for i, q := range questions {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, ", ")
}
