// Package validation checks submitted questionnaire sections against the
// closed section model before anything touches storage. It is deliberately
// strict: unknown sections, unknown fields inside a typed record, and
// type-coerced scalars are all rejected rather than normalized.
package validation

import (
	"fmt"

	"github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/domain/catalog"
)

// Validator applies section-level rules to a submission. The catalog hook is
// optional: when set, answers to catalogued questions are also checked against
// their declared shape.
type Validator struct {
	catalogCheck func(questionID string, answer any) error
}

type Option func(*Validator)

// WithCatalog wires per-question shape validation on top of the section rules.
func WithCatalog(check func(questionID string, answer any) error) Option {
	return func(v *Validator) { v.catalogCheck = check }
}

func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateSubmission validates every section of a full submission. The first
// failing section aborts; a submission is stored whole or not at all.
func (v *Validator) ValidateSubmission(in aggregates.SubmitInput) error {
	const op = "Validation.ValidateSubmission"
	if in.UserID <= 0 {
		return aggregates.NewError(aggregates.CodeValidation, op, "user id is required", nil)
	}
	if len(in.Sections) == 0 {
		return aggregates.NewError(aggregates.CodeValidation, op, "submission has no sections", nil)
	}
	seen := make(map[string]struct{}, len(in.Sections))
	for _, s := range in.Sections {
		if _, dup := seen[s.SectionID]; dup {
			return aggregates.NewError(aggregates.CodeValidation, op,
				fmt.Sprintf("section %s appears more than once", s.SectionID), nil)
		}
		seen[s.SectionID] = struct{}{}
		if err := v.ValidateSection(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSection dispatches on the section id. Unknown ids fail closed.
func (v *Validator) ValidateSection(s aggregates.SectionSubmission) error {
	const op = "Validation.ValidateSection"

	answers, err := indexAnswers(op, s)
	if err != nil {
		return err
	}

	switch catalog.SectionID(s.SectionID) {
	case catalog.SectionPersonalInfo:
		err = validatePersonalInfo(answers)
	case catalog.SectionFamilyStatus:
		err = validateFamilyStatus(answers)
	case catalog.SectionHousing:
		err = validateHousing(answers)
	case catalog.SectionEmployment:
		err = validateEmployment(answers)
	case catalog.SectionSocialSituation:
		err = validateSocialSituation(answers)
	default:
		return aggregates.NewError(aggregates.CodeValidation, op,
			fmt.Sprintf("unknown section: %s", s.SectionID), nil)
	}
	if err != nil {
		return err
	}

	if v.catalogCheck != nil {
		for _, a := range s.Answers {
			if err := v.catalogCheck(a.QuestionID, a.Answer); err != nil {
				if aggregates.IsCode(err, aggregates.CodeNotFound) {
					// Catalogued shape rules only apply to catalogued questions.
					continue
				}
				return err
			}
		}
	}
	return nil
}

// answerSet is a section's answers keyed by question id.
type answerSet struct {
	sectionID string
	values    map[string]any
}

func indexAnswers(op string, s aggregates.SectionSubmission) (answerSet, error) {
	set := answerSet{sectionID: s.SectionID, values: make(map[string]any, len(s.Answers))}
	for _, a := range s.Answers {
		if a.QuestionID == "" {
			return answerSet{}, aggregates.NewFieldError(op, s.SectionID, "", "answer is missing its question id")
		}
		if _, dup := set.values[a.QuestionID]; dup {
			return answerSet{}, aggregates.NewFieldError(op, s.SectionID, a.QuestionID, "question answered more than once")
		}
		set.values[a.QuestionID] = a.Answer
	}
	return set, nil
}
