package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avosdroits/avosdroits-backend/internal/services"
)

type QuestionHandler struct {
	catalogService services.CatalogService
}

func NewQuestionHandler(catalogService services.CatalogService) *QuestionHandler {
	return &QuestionHandler{catalogService: catalogService}
}

// GetTemplate serves the full ordered questionnaire definition.
func (qh *QuestionHandler) GetTemplate(c *gin.Context) {
	tpl, err := qh.catalogService.GetTemplate(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, tpl)
}

func (qh *QuestionHandler) GetSectionQuestions(c *gin.Context) {
	qs, err := qh.catalogService.GetSectionQuestions(c.Request.Context(), c.Param("section_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, qs)
}

func (qh *QuestionHandler) GetQuestion(c *gin.Context) {
	q, err := qh.catalogService.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, q)
}

func (qh *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	q, err := qh.catalogService.CreateQuestion(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, q)
}

func (qh *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	q, err := qh.catalogService.UpdateQuestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, q)
}

func (qh *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := qh.catalogService.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": c.Param("id")})
}

// ValidateAnswer checks a single answer without saving anything.
func (qh *QuestionHandler) ValidateAnswer(c *gin.Context) {
	var req services.ValidateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	res, err := qh.catalogService.ValidateAnswer(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, res)
}
