package aggregates

import (
	"fmt"
	"strings"
)

// FieldError pins a validation failure to the question (and section) that
// caused it, so callers can render a field-level message.
type FieldError struct {
	SectionID  string
	QuestionID string
	Reason     string
}

func (e *FieldError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(e.SectionID); s != "" {
		parts = append(parts, "section "+s)
	}
	if q := strings.TrimSpace(e.QuestionID); q != "" {
		parts = append(parts, "question "+q)
	}
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "invalid answer"
	}
	if len(parts) == 0 {
		return reason
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), reason)
}

// NewFieldError builds a validation-coded aggregate error carrying field context.
func NewFieldError(op, sectionID, questionID, reason string) error {
	fe := &FieldError{SectionID: sectionID, QuestionID: questionID, Reason: reason}
	return &Error{
		Code:    CodeValidation,
		Op:      strings.TrimSpace(op),
		Message: fe.Error(),
		Cause:   fe,
	}
}
