package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avosdroits/avosdroits-backend/internal/services"
)

type QuestionnaireHandler struct {
	questionnaireService services.QuestionnaireService
}

func NewQuestionnaireHandler(questionnaireService services.QuestionnaireService) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireService: questionnaireService}
}

func (qh *QuestionnaireHandler) Submit(c *gin.Context) {
	var req services.SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := qh.questionnaireService.Submit(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, dto)
}

func (qh *QuestionnaireHandler) Replace(c *gin.Context) {
	var req services.SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := qh.questionnaireService.Replace(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dto)
}

func (qh *QuestionnaireHandler) GetCurrent(c *gin.Context) {
	dto, err := qh.questionnaireService.GetCurrent(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dto)
}

func (qh *QuestionnaireHandler) GetVersion(c *gin.Context) {
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := qh.questionnaireService.GetVersion(c.Request.Context(), version)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dto)
}

func (qh *QuestionnaireHandler) GetHistory(c *gin.Context) {
	dtos, err := qh.questionnaireService.GetHistory(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dtos)
}
