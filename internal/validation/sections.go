package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
)

const (
	maxAge        = 150
	maxDependents = 20
)

func validatePersonalInfo(set answerSet) error {
	const op = "Validation.PersonalInfo"
	if err := requireString(op, set, "name"); err != nil {
		return err
	}
	if err := requireWholeNumber(op, set, "age", 0, maxAge); err != nil {
		return err
	}
	if err := requireString(op, set, "nationality"); err != nil {
		return err
	}
	return requireString(op, set, "birth_date")
}

func validateFamilyStatus(set answerSet) error {
	const op = "Validation.FamilyStatus"
	if err := requireString(op, set, "marital_status"); err != nil {
		return err
	}
	return requireWholeNumber(op, set, "dependents", 0, maxDependents)
}

func validateHousing(set answerSet) error {
	const op = "Validation.Housing"
	if err := requireString(op, set, "housing_type"); err != nil {
		return err
	}
	if err := requireString(op, set, "current_address"); err != nil {
		return err
	}
	return requireString(op, set, "residence_duration")
}

func validateEmployment(set answerSet) error {
	const op = "Validation.Employment"
	if err := requireString(op, set, "employment_status"); err != nil {
		return err
	}
	if err := optionalString(op, set, "sector"); err != nil {
		return err
	}
	if err := optionalString(op, set, "contract_type"); err != nil {
		return err
	}
	if err := optionalNumberMin(op, set, "monthly_income", 0); err != nil {
		return err
	}
	return requireBool(op, set, "job_seeker")
}

var socialSituationFields = []string{
	"health_issues",
	"disability",
	"immigrant_status",
	"social_benefits",
	"debts",
	"housing_assistance",
	"family_allowance",
	"other_income",
}

func validateSocialSituation(set answerSet) error {
	const op = "Validation.SocialSituation"
	for _, field := range socialSituationFields {
		if err := requireBool(op, set, field); err != nil {
			return err
		}
	}
	return nil
}

func requireString(op string, set answerSet, field string) error {
	raw, ok := set.values[field]
	if !ok || raw == nil {
		return aggregates.NewFieldError(op, set.sectionID, field, "answer is required")
	}
	s, isStr := raw.(string)
	if !isStr {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected a text answer")
	}
	if strings.TrimSpace(s) == "" {
		return aggregates.NewFieldError(op, set.sectionID, field, "answer is required")
	}
	return nil
}

func optionalString(op string, set answerSet, field string) error {
	raw, ok := set.values[field]
	if !ok || raw == nil {
		return nil
	}
	if _, isStr := raw.(string); !isStr {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected a text answer")
	}
	return nil
}

func requireWholeNumber(op string, set answerSet, field string, min, max float64) error {
	raw, ok := set.values[field]
	if !ok || raw == nil {
		return aggregates.NewFieldError(op, set.sectionID, field, "answer is required")
	}
	n, isNum := asNumber(raw)
	if !isNum {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected a numeric answer")
	}
	if n != math.Trunc(n) {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected a whole number")
	}
	if n < min || n > max {
		return aggregates.NewFieldError(op, set.sectionID, field,
			fmt.Sprintf("value %v is outside the allowed range [%v, %v]", n, min, max))
	}
	return nil
}

func optionalNumberMin(op string, set answerSet, field string, min float64) error {
	raw, ok := set.values[field]
	if !ok || raw == nil {
		return nil
	}
	n, isNum := asNumber(raw)
	if !isNum {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected a numeric answer")
	}
	if n < min {
		return aggregates.NewFieldError(op, set.sectionID, field,
			fmt.Sprintf("value %v is below minimum %v", n, min))
	}
	return nil
}

func requireBool(op string, set answerSet, field string) error {
	raw, ok := set.values[field]
	if !ok || raw == nil {
		return aggregates.NewFieldError(op, set.sectionID, field, "answer is required")
	}
	if _, isBool := raw.(bool); !isBool {
		return aggregates.NewFieldError(op, set.sectionID, field, "expected true or false")
	}
	return nil
}

// asNumber mirrors JSON decoding behavior: numbers arrive as float64 (or
// json.Number with UseNumber); numeric strings and booleans never qualify.
func asNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
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
