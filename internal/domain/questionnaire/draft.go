package questionnaire

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DraftResponse is a standalone session-scoped answer used by the incremental
// save flow. It lives outside the versioned aggregate; the two read models are
// never reconciled automatically.
//
// At most one live draft exists per (user, question, session).
type DraftResponse struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID int       `gorm:"not null;uniqueIndex:ux_draft_user_question_session,priority:1;index" json:"user_id"`

	QuestionID string `gorm:"not null;uniqueIndex:ux_draft_user_question_session,priority:2" json:"question_id"`
	SessionID  string `gorm:"not null;uniqueIndex:ux_draft_user_question_session,priority:3" json:"session_id"`
	Answer     datatypes.JSON `gorm:"type:jsonb;not null" json:"answer"`

	CreatedAt time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (DraftResponse) TableName() string { return "questionnaire_draft_response" }
