package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
)

// acceptedDateLayouts covers the formats clients actually send. RFC 3339 first
// since that is what the web client produces.
var acceptedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

func (p *provider) ValidateAnswer(questionID string, answer any) error {
	const op = "Catalog.ValidateAnswer"

	q, err := p.Question(questionID)
	if err != nil {
		return err
	}

	if isEmptyAnswer(answer) {
		if q.Required {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "answer is required")
		}
		return nil
	}

	switch q.Type {
	case catalog.TypeText:
		if _, ok := answerString(answer); !ok {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "expected a text answer")
		}
	case catalog.TypeNumber:
		n, ok := answerNumber(answer)
		if !ok {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "expected a numeric answer")
		}
		if q.Rule != nil {
			if q.Rule.Min != nil && n < *q.Rule.Min {
				return domainagg.NewFieldError(op, string(q.SectionID), q.ID,
					fmt.Sprintf("value %v is below minimum %v", n, *q.Rule.Min))
			}
			if q.Rule.Max != nil && n > *q.Rule.Max {
				return domainagg.NewFieldError(op, string(q.SectionID), q.ID,
					fmt.Sprintf("value %v is above maximum %v", n, *q.Rule.Max))
			}
		}
	case catalog.TypeDate:
		s, ok := answerString(answer)
		if !ok {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "expected a date answer")
		}
		if !parseableDate(s) {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, fmt.Sprintf("unparseable date %q", s))
		}
	case catalog.TypeBoolean:
		if _, ok := answer.(bool); !ok {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "expected true or false")
		}
	case catalog.TypeSelect:
		s, ok := answerString(answer)
		if !ok {
			return domainagg.NewFieldError(op, string(q.SectionID), q.ID, "expected one of the listed options")
		}
		for _, opt := range q.Options {
			if opt.Value == s {
				return nil
			}
		}
		return domainagg.NewFieldError(op, string(q.SectionID), q.ID, fmt.Sprintf("%q is not a listed option", s))
	}
	return nil
}

func isEmptyAnswer(answer any) bool {
	if answer == nil {
		return true
	}
	if s, ok := answer.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func answerString(answer any) (string, bool) {
	s, ok := answer.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// answerNumber accepts the numeric representations that survive JSON decoding
// plus native ints from in-process callers. Strings are never coerced.
func answerNumber(answer any) (float64, bool) {
	switch v := answer.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func parseableDate(s string) bool {
	for _, layout := range acceptedDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
