package services

import (
	"context"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	domcatalog "github.com/avosdroits/avosdroits-backend/internal/domain/catalog"

	"github.com/avosdroits/avosdroits-backend/internal/catalog"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/ctxutil"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
)

// QuestionRequest is the admin create/update payload for a catalog question.
type QuestionRequest struct {
	ID        string              `json:"id"`
	SectionID string              `json:"section_id" binding:"required"`
	Prompt    string              `json:"question" binding:"required"`
	Type      string              `json:"type" binding:"required"`
	Required  bool                `json:"required"`
	Rule      *domcatalog.Rule    `json:"validation_rule"`
	Order     int                 `json:"order"`
	Options   []domcatalog.Option `json:"options"`
}

// ValidateAnswerRequest checks one candidate answer without persisting it.
type ValidateAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     any    `json:"answer"`
}

type ValidateAnswerResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type CatalogService interface {
	GetTemplate(ctx context.Context) (domcatalog.Template, error)
	GetQuestion(ctx context.Context, id string) (domcatalog.Question, error)
	GetSectionQuestions(ctx context.Context, sectionID string) ([]domcatalog.Question, error)
	CreateQuestion(ctx context.Context, req QuestionRequest) (domcatalog.Question, error)
	UpdateQuestion(ctx context.Context, id string, req QuestionRequest) (domcatalog.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	ValidateAnswer(ctx context.Context, req ValidateAnswerRequest) (ValidateAnswerResult, error)
}

type catalogService struct {
	log      *logger.Logger
	provider catalog.Provider
}

func NewCatalogService(log *logger.Logger, provider catalog.Provider) CatalogService {
	return &catalogService{
		log:      log.With("service", "CatalogService"),
		provider: provider,
	}
}

func (s *catalogService) GetTemplate(ctx context.Context) (domcatalog.Template, error) {
	return s.provider.Template(), nil
}

func (s *catalogService) GetQuestion(ctx context.Context, id string) (domcatalog.Question, error) {
	return s.provider.Question(id)
}

// GetSectionQuestions returns the ordered questions of one section; an unknown
// section id yields an empty list, not an error.
func (s *catalogService) GetSectionQuestions(ctx context.Context, sectionID string) ([]domcatalog.Question, error) {
	return s.provider.QuestionsForSection(domcatalog.SectionID(sectionID)), nil
}

func (s *catalogService) CreateQuestion(ctx context.Context, req QuestionRequest) (domcatalog.Question, error) {
	const op = "CatalogService.CreateQuestion"
	if err := requireAdmin(ctx, op); err != nil {
		return domcatalog.Question{}, err
	}
	q, err := s.provider.Create(toQuestion(req))
	if err != nil {
		return domcatalog.Question{}, err
	}
	s.log.Info("question created", "question_id", q.ID, "section", string(q.SectionID))
	return q, nil
}

func (s *catalogService) UpdateQuestion(ctx context.Context, id string, req QuestionRequest) (domcatalog.Question, error) {
	const op = "CatalogService.UpdateQuestion"
	if err := requireAdmin(ctx, op); err != nil {
		return domcatalog.Question{}, err
	}
	q, err := s.provider.Update(id, toQuestion(req))
	if err != nil {
		return domcatalog.Question{}, err
	}
	s.log.Info("question updated", "question_id", q.ID)
	return q, nil
}

func (s *catalogService) DeleteQuestion(ctx context.Context, id string) error {
	const op = "CatalogService.DeleteQuestion"
	if err := requireAdmin(ctx, op); err != nil {
		return err
	}
	if err := s.provider.Delete(id); err != nil {
		return err
	}
	s.log.Info("question deleted", "question_id", id)
	return nil
}

// ValidateAnswer reports shape violations as data rather than as an error, so
// clients can probe an answer without tripping error handling. Unknown
// questions still surface as not_found.
func (s *catalogService) ValidateAnswer(ctx context.Context, req ValidateAnswerRequest) (ValidateAnswerResult, error) {
	err := s.provider.ValidateAnswer(req.QuestionID, req.Answer)
	if err == nil {
		return ValidateAnswerResult{Valid: true}, nil
	}
	if domainagg.IsCode(err, domainagg.CodeNotFound) {
		return ValidateAnswerResult{}, err
	}
	return ValidateAnswerResult{Valid: false, Reason: err.Error()}, nil
}

func requireAdmin(ctx context.Context, op string) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID <= 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "authenticated user required", nil)
	}
	if !rd.IsAdmin {
		return domainagg.NewError(domainagg.CodePreconditionFailed, op, "admin role required", nil)
	}
	return nil
}

func toQuestion(req QuestionRequest) domcatalog.Question {
	return domcatalog.Question{
		ID:        req.ID,
		SectionID: domcatalog.SectionID(req.SectionID),
		Prompt:    req.Prompt,
		Type:      domcatalog.QuestionType(req.Type),
		Required:  req.Required,
		Rule:      req.Rule,
		Order:     req.Order,
		Options:   req.Options,
	}
}
