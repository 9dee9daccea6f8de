package settings

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a dotted path does not name a schema leaf.
var ErrNotFound = errors.New("unknown configuration path")

// Violation describes one rejected leaf.  Path is the dotted schema path,
// Rule the failed constraint (required, oneof, min, …).
type Violation struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries every violation found in a proposed tree.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
