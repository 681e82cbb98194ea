package questionnaire

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Questionnaire is one immutable versioned snapshot of a user's answers.
// Exactly one row per user carries the maximum version ("current"); prior
// versions are retained as history.
type Questionnaire struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID  int       `gorm:"not null;uniqueIndex:ux_questionnaire_user_version,priority:1;index" json:"user_id"`
	Version int       `gorm:"not null;uniqueIndex:ux_questionnaire_user_version,priority:2" json:"version"`

	CompletedAt time.Time  `gorm:"not null" json:"completed_at"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`

	Sections []Section `gorm:"foreignKey:QuestionnaireID" json:"sections"`
}

func (Questionnaire) TableName() string { return "questionnaire" }

// Section groups the responses of one submitted section. Its lifecycle is
// tied 1:1 to the parent questionnaire: created and destroyed atomically with it.
type Section struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionnaireID uuid.UUID `gorm:"type:uuid;not null;index" json:"questionnaire_id"`

	Title string `gorm:"not null" json:"title"`
	Order int    `gorm:"column:order;not null" json:"order"`

	Responses []Response `gorm:"foreignKey:SectionID" json:"responses"`
}

func (Section) TableName() string { return "questionnaire_section" }

// Response is one answered question inside a versioned section. The answer is
// stored JSON-serialized; the question id is a weak reference into the catalog.
type Response struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	UserID    int       `gorm:"not null;index" json:"user_id"`

	QuestionID string         `gorm:"not null" json:"question_id"`
	Answer     datatypes.JSON `gorm:"type:jsonb;not null" json:"answer"`

	CreatedAt time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (Response) TableName() string { return "questionnaire_response" }
