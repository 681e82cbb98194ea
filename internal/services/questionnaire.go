package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	types "github.com/avosdroits/avosdroits-backend/internal/domain/questionnaire"
	"github.com/avosdroits/avosdroits-backend/internal/observability"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/ctxutil"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
	"github.com/avosdroits/avosdroits-backend/internal/validation"
)

// SubmitQuestionnaireRequest is the submit/replace payload as bound from JSON.
type SubmitQuestionnaireRequest struct {
	Sections []SectionPayload `json:"sections" binding:"required"`
}

type SectionPayload struct {
	SectionID string          `json:"section_id" binding:"required"`
	Answers   []AnswerPayload `json:"answers"`
}

type AnswerPayload struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     any    `json:"answer"`
}

// QuestionnaireDTO is the read shape returned to clients. Answers are decoded
// back from their stored JSON form.
type QuestionnaireDTO struct {
	ID          uuid.UUID    `json:"id"`
	UserID      int          `json:"user_id"`
	Version     int          `json:"version"`
	CompletedAt time.Time    `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
	Sections    []SectionDTO `json:"sections"`
}

type SectionDTO struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Order     int           `json:"order"`
	Responses []ResponseDTO `json:"responses"`
}

type ResponseDTO struct {
	ID         uuid.UUID  `json:"id"`
	UserID     int        `json:"user_id"`
	QuestionID string     `json:"question_id"`
	Answer     any        `json:"answer"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type QuestionnaireService interface {
	Submit(ctx context.Context, req SubmitQuestionnaireRequest) (*QuestionnaireDTO, error)
	Replace(ctx context.Context, req SubmitQuestionnaireRequest) (*QuestionnaireDTO, error)
	GetCurrent(ctx context.Context) (*QuestionnaireDTO, error)
	GetVersion(ctx context.Context, version int) (*QuestionnaireDTO, error)
	GetHistory(ctx context.Context) ([]*QuestionnaireDTO, error)
}

type questionnaireService struct {
	log       *logger.Logger
	validator *validation.Validator
	aggregate domainagg.QuestionnaireAggregate
	metrics   *observability.Metrics
}

func NewQuestionnaireService(log *logger.Logger, validator *validation.Validator, aggregate domainagg.QuestionnaireAggregate, metrics *observability.Metrics) QuestionnaireService {
	return &questionnaireService{
		log:       log.With("service", "QuestionnaireService"),
		validator: validator,
		aggregate: aggregate,
		metrics:   metrics,
	}
}

func (s *questionnaireService) Submit(ctx context.Context, req SubmitQuestionnaireRequest) (*QuestionnaireDTO, error) {
	const op = "QuestionnaireService.Submit"
	in, err := s.buildInput(ctx, op, req)
	if err != nil {
		s.metrics.IncSubmission("submit", "validation_failed")
		return nil, err
	}

	q, err := s.aggregate.SubmitNew(ctx, in)
	if err != nil {
		s.metrics.IncSubmission("submit", string(domainagg.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncSubmission("submit", "success")
	s.log.Info("questionnaire submitted", "user_id", in.UserID, "version", q.Version)

	// Re-read so the DTO carries the fully resolved subtree.
	return s.GetCurrent(ctx)
}

func (s *questionnaireService) Replace(ctx context.Context, req SubmitQuestionnaireRequest) (*QuestionnaireDTO, error) {
	const op = "QuestionnaireService.Replace"
	in, err := s.buildInput(ctx, op, req)
	if err != nil {
		s.metrics.IncSubmission("replace", "validation_failed")
		return nil, err
	}

	q, err := s.aggregate.ReplaceCurrent(ctx, in)
	if err != nil {
		s.metrics.IncSubmission("replace", string(domainagg.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncSubmission("replace", "success")
	s.log.Info("questionnaire replaced", "user_id", in.UserID, "version", q.Version)
	return toQuestionnaireDTO(q), nil
}

func (s *questionnaireService) GetCurrent(ctx context.Context) (*QuestionnaireDTO, error) {
	const op = "QuestionnaireService.GetCurrent"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	q, err := s.aggregate.GetCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toQuestionnaireDTO(q), nil
}

func (s *questionnaireService) GetVersion(ctx context.Context, version int) (*QuestionnaireDTO, error) {
	const op = "QuestionnaireService.GetVersion"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	q, err := s.aggregate.GetVersion(ctx, userID, version)
	if err != nil {
		return nil, err
	}
	return toQuestionnaireDTO(q), nil
}

func (s *questionnaireService) GetHistory(ctx context.Context) ([]*QuestionnaireDTO, error) {
	const op = "QuestionnaireService.GetHistory"
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return nil, err
	}
	qs, err := s.aggregate.GetHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*QuestionnaireDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuestionnaireDTO(q))
	}
	return out, nil
}

func (s *questionnaireService) buildInput(ctx context.Context, op string, req SubmitQuestionnaireRequest) (domainagg.SubmitInput, error) {
	userID, err := requireUserID(ctx, op)
	if err != nil {
		return domainagg.SubmitInput{}, err
	}

	in := domainagg.SubmitInput{
		UserID:      userID,
		SubmittedAt: time.Now().UTC(),
		Sections:    make([]domainagg.SectionSubmission, 0, len(req.Sections)),
	}
	for _, sec := range req.Sections {
		sub := domainagg.SectionSubmission{
			SectionID: sec.SectionID,
			Answers:   make([]domainagg.AnswerSubmission, 0, len(sec.Answers)),
		}
		for _, ans := range sec.Answers {
			sub.Answers = append(sub.Answers, domainagg.AnswerSubmission{
				QuestionID: ans.QuestionID,
				Answer:     ans.Answer,
			})
		}
		in.Sections = append(in.Sections, sub)
	}

	if err := s.validator.ValidateSubmission(in); err != nil {
		s.observeValidationFailure(err)
		return domainagg.SubmitInput{}, err
	}
	return in, nil
}

func (s *questionnaireService) observeValidationFailure(err error) {
	var fe *domainagg.FieldError
	if errors.As(err, &fe) {
		s.metrics.IncValidationFailure(fe.SectionID)
		return
	}
	s.metrics.IncValidationFailure("")
}

func requireUserID(ctx context.Context, op string) (int, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID <= 0 {
		return 0, domainagg.NewError(domainagg.CodeValidation, op, "authenticated user required", nil)
	}
	return rd.UserID, nil
}

func toQuestionnaireDTO(q *types.Questionnaire) *QuestionnaireDTO {
	if q == nil {
		return nil
	}
	dto := &QuestionnaireDTO{
		ID:          q.ID,
		UserID:      q.UserID,
		Version:     q.Version,
		CompletedAt: q.CompletedAt,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Sections:    make([]SectionDTO, 0, len(q.Sections)),
	}
	for _, sec := range q.Sections {
		secDTO := SectionDTO{
			ID:        sec.ID,
			Title:     sec.Title,
			Order:     sec.Order,
			Responses: make([]ResponseDTO, 0, len(sec.Responses)),
		}
		for _, r := range sec.Responses {
			secDTO.Responses = append(secDTO.Responses, ResponseDTO{
				ID:         r.ID,
				UserID:     r.UserID,
				QuestionID: r.QuestionID,
				Answer:     decodeAnswer(r.Answer),
				CreatedAt:  r.CreatedAt,
				UpdatedAt:  r.UpdatedAt,
			})
		}
		dto.Sections = append(dto.Sections, secDTO)
	}
	return dto
}

// decodeAnswer restores the stored JSON value; a decode failure surfaces the
// raw string rather than dropping the answer.
func decodeAnswer(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
