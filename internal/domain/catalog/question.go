package catalog

// QuestionType is the answer shape a question expects.
type QuestionType string

const (
	TypeText    QuestionType = "text"
	TypeNumber  QuestionType = "number"
	TypeDate    QuestionType = "date"
	TypeBoolean QuestionType = "boolean"
	TypeSelect  QuestionType = "select"
)

// KnownQuestionType reports whether t is one of the supported answer shapes.
func KnownQuestionType(t QuestionType) bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeBoolean, TypeSelect:
		return true
	default:
		return false
	}
}

// Option is one selectable value for a select-typed question.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	Order int    `json:"order" yaml:"order"`
}

// Rule is an optional structured numeric constraint.
type Rule struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// Question is an immutable catalog entry. Lookup is by exact, case-sensitive id.
type Question struct {
	ID        string       `json:"id" yaml:"id"`
	SectionID SectionID    `json:"section_id" yaml:"section_id"`
	Prompt    string       `json:"question" yaml:"prompt"`
	Type      QuestionType `json:"type" yaml:"type"`
	Required  bool         `json:"required" yaml:"required"`
	Rule      *Rule        `json:"validation_rule,omitempty" yaml:"rule,omitempty"`
	Order     int          `json:"order" yaml:"order"`
	Options   []Option     `json:"options,omitempty" yaml:"options,omitempty"`
}

// SectionTemplate is a section with its ordered questions, as served to clients.
type SectionTemplate struct {
	Section   `yaml:",inline"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Template is the full ordered questionnaire definition.
type Template struct {
	Sections []SectionTemplate `json:"sections" yaml:"sections"`
}
