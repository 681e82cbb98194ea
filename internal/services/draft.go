package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	questrepos "github.com/avosdroits/avosdroits-backend/internal/data/repos/questionnaire"
	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"

	"github.com/avosdroits/avosdroits-backend/internal/catalog"
	"github.com/avosdroits/avosdroits-backend/internal/observability"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/dbctx"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

// SaveDraftRequest carries one incremental answer for a (question, session) slot.
type SaveDraftRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	SessionID  string `json:"session_id" binding:"required"`
	Answer     any    `json:"answer"`
}

type UpdateDraftRequest struct {
	Answer any `json:"answer"`
}

// DraftResponseDTO is the read shape of a saved draft answer.
type DraftResponseDTO struct {
	ID         uuid.UUID  `json:"id"`
	QuestionID string     `json:"question_id"`
	SessionID  string     `json:"session_id"`
	Answer     any        `json:"answer"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type DraftResponseService interface {
	// Save creates the draft for a (question, session) slot. A second save for
	// the same slot fails with conflict; callers update the existing draft
	// instead. There is no silent upsert.
	Save(ctx context.Context, req SaveDraftRequest) (*DraftResponseDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DraftResponseDTO, error)
	List(ctx context.Context, sessionID string) ([]*DraftResponseDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*DraftResponseDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type draftResponseService struct {
	log     *logger.Logger
	drafts  questrepos.DraftResponseRepo
	catalog catalog.Provider
	metrics *observability.Metrics
}

func NewDraftResponseService(log *logger.Logger, drafts questrepos.DraftResponseRepo, provider catalog.Provider, metrics *observability.Metrics) DraftResponseService {
	return &draftResponseService{
		log:     log.With("service", "DraftResponseService"),
		drafts:  drafts,
		catalog: provider,
		metrics: metrics,
	}
}

func (s *draftResponseService) Save(ctx context.Context, req SaveDraftRequest) (*DraftResponseDTO, error) {
	const op = "DraftResponseService.Save"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	if err := s.checkAnswer(op, req.QuestionID, req.Answer); err != nil {
		s.metrics.IncDraftOperation("save", "validation_failed")
		return nil, err
	}
	raw, err := encodeAnswer(op, req.Answer)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}

	// The (user, question, session) slot is create-once; the unique index is
	// the backstop for the race between this check and the insert.
	existing, err := s.drafts.GetByKey(dbc, userID, req.QuestionID, req.SessionID)
	switch {
	case err == nil:
		s.metrics.IncDraftOperation("save", "conflict")
		return nil, domainagg.NewError(domainagg.CodeConflict, op,
			fmt.Sprintf("draft already exists for question %s in this session (id %s)", req.QuestionID, existing.ID), nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// continue
	default:
		s.metrics.IncDraftOperation("save", "error")
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}

	rows, err := s.drafts.Create(dbc, []*types.DraftResponse{{
		UserID:     userID,
		QuestionID: req.QuestionID,
		SessionID:  req.SessionID,
		Answer:     raw,
	}})
	if err != nil {
		if isUniqueViolation(err) {
			s.metrics.IncDraftOperation("save", "conflict")
			return nil, domainagg.NewError(domainagg.CodeConflict, op,
				fmt.Sprintf("draft already exists for question %s in this session", req.QuestionID), err)
		}
		s.metrics.IncDraftOperation("save", "error")
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	s.metrics.IncDraftOperation("save", "created")
	return toDraftDTO(rows[0]), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *draftResponseService) Get(ctx context.Context, id uuid.UUID) (*DraftResponseDTO, error) {
	const op = "DraftResponseService.Get"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	row, err := s.drafts.GetByID(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, mapDraftError(op, err)
	}
	return toDraftDTO(row), nil
}

func (s *draftResponseService) List(ctx context.Context, sessionID string) ([]*DraftResponseDTO, error) {
	const op = "DraftResponseService.List"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	rows, err := s.drafts.ListByUser(dbctx.Context{Ctx: ctx}, userID, sessionID)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	out := make([]*DraftResponseDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDraftDTO(row))
	}
	return out, nil
}

func (s *draftResponseService) Update(ctx context.Context, id uuid.UUID, req UpdateDraftRequest) (*DraftResponseDTO, error) {
	const op = "DraftResponseService.Update"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.drafts.GetByID(dbc, userID, id)
	if err != nil {
		return nil, mapDraftError(op, err)
	}
	if err := s.checkAnswer(op, existing.QuestionID, req.Answer); err != nil {
		s.metrics.IncDraftOperation("update", "validation_failed")
		return nil, err
	}
	raw, err := encodeAnswer(op, req.Answer)
	if err != nil {
		return nil, err
	}

	rows, err := s.drafts.UpdateAnswer(dbc, userID, id, raw)
	if err != nil {
		s.metrics.IncDraftOperation("update", "error")
		return nil, domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if rows == 0 {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "draft response not found", nil)
	}
	updated, err := s.drafts.GetByID(dbc, userID, id)
	if err != nil {
		return nil, mapDraftError(op, err)
	}
	s.metrics.IncDraftOperation("update", "success")
	return toDraftDTO(updated), nil
}

func (s *draftResponseService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "DraftResponseService.Delete"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return err
	}
	rows, err := s.drafts.Delete(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		s.metrics.IncDraftOperation("delete", "error")
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	if rows == 0 {
		return domainagg.NewError(domainagg.CodeNotFound, op, "draft response not found", nil)
	}
	s.metrics.IncDraftOperation("delete", "success")
	return nil
}

func (s *draftResponseService) DeleteSession(ctx context.Context, sessionID string) error {
	const op = "DraftResponseService.DeleteSession"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return err
	}
	if sessionID == "" {
		return domainagg.NewError(domainagg.CodeValidation, op, "session_id is required", nil)
	}
	if err := s.drafts.DeleteBySession(dbctx.Context{Ctx: ctx}, userID, sessionID); err != nil {
		s.metrics.IncDraftOperation("delete_session", "error")
		return domainagg.Wrap(domainagg.CodeInternal, op, err)
	}
	s.metrics.IncDraftOperation("delete_session", "success")
	return nil
}

// checkAnswer requires the question to exist in the catalog and enforces its
// declared shape. Drafts never reference questions the catalog cannot resolve.
func (s *draftResponseService) checkAnswer(op, questionID string, answer any) error {
	return s.catalog.ValidateAnswer(questionID, answer)
}

func mapDraftError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainagg.NewError(domainagg.CodeNotFound, op, "draft response not found", err)
	}
	return domainagg.Wrap(domainagg.CodeInternal, op, err)
}

func encodeAnswer(op string, answer any) (datatypes.JSON, error) {
	raw, err := json.Marshal(answer)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeValidation, op, err)
	}
	return datatypes.JSON(raw), nil
}

func toDraftDTO(row *types.DraftResponse) *DraftResponseDTO {
	if row == nil {
		return nil
	}
	return &DraftResponseDTO{
		ID:         row.ID,
		QuestionID: row.QuestionID,
		SessionID:  row.SessionID,
		Answer:     decodeAnswer(row.Answer),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
