package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avosdroits/avosdroits-backend/internal/services"
)

type DraftResponseHandler struct {
	draftService services.DraftResponseService
}

func NewDraftResponseHandler(draftService services.DraftResponseService) *DraftResponseHandler {
	return &DraftResponseHandler{draftService: draftService}
}

func (dh *DraftResponseHandler) Save(c *gin.Context) {
	var req services.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := dh.draftService.Save(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, dto)
}

func (dh *DraftResponseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := dh.draftService.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dto)
}

// List returns the caller's drafts; ?session_id= narrows to one session.
func (dh *DraftResponseHandler) List(c *gin.Context) {
	dtos, err := dh.draftService.List(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dtos)
}

func (dh *DraftResponseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	var req services.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	dto, err := dh.draftService.Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, dto)
}

func (dh *DraftResponseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	if err := dh.draftService.Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

func (dh *DraftResponseHandler) DeleteSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := dh.draftService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted_session": sessionID})
}
