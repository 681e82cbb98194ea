package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
)

var QuestionnaireAggregateContract = Contract{
	Name:             "Questionnaire.VersionedAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns atomic questionnaire/section/response consistency and per-user version assignment.",
}

// VersionPolicy controls whether ReplaceCurrent bumps the questionnaire version.
type VersionPolicy string

const (
	// VersionPolicyPreserve mutates the current row in place without touching version.
	VersionPolicyPreserve VersionPolicy = "preserve"
	// VersionPolicyIncrement treats a replace as a resubmission and assigns the next version.
	VersionPolicyIncrement VersionPolicy = "increment"
)

// ParseVersionPolicy normalizes a configured policy, defaulting to preserve.
func ParseVersionPolicy(raw string) VersionPolicy {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(VersionPolicyIncrement):
		return VersionPolicyIncrement
	default:
		return VersionPolicyPreserve
	}
}

// QuestionnaireAggregate owns the versioned questionnaire invariants:
// at most one row per (user, version), whole-subtree atomic writes, and
// monotonically increasing version assignment.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type QuestionnaireAggregate interface {
	Aggregate

	// SubmitNew persists a new max-version questionnaire for the user in one transaction.
	SubmitNew(ctx context.Context, in SubmitInput) (*questionnaire.Questionnaire, error)

	// ReplaceCurrent swaps the current questionnaire's section/response subtree.
	// Falls back to SubmitNew when the user has no questionnaire yet.
	ReplaceCurrent(ctx context.Context, in SubmitInput) (*questionnaire.Questionnaire, error)

	// GetCurrent returns the max-version questionnaire with children preloaded.
	GetCurrent(ctx context.Context, userID int) (*questionnaire.Questionnaire, error)

	// GetVersion returns one specific historical version.
	GetVersion(ctx context.Context, userID, version int) (*questionnaire.Questionnaire, error)

	// GetHistory returns all versions for the user, newest first, children preloaded.
	GetHistory(ctx context.Context, userID int) ([]*questionnaire.Questionnaire, error)
}

// AnswerSubmission is one (question, answer) pair as received on the wire.
type AnswerSubmission struct {
	QuestionID string
	Answer     any
}

// SectionSubmission is one submitted section. Title and order are never taken
// from the client; they are resolved from the static section enum.
type SectionSubmission struct {
	SectionID string
	Answers   []AnswerSubmission
}

type SubmitInput struct {
	UserID      int
	Sections    []SectionSubmission
	SubmittedAt time.Time
}
