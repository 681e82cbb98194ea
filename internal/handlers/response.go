package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avosdroits/avosdroits-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Envelope is the uniform response shape: {success, data} or {success, error}.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: payload})
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: payload})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, Envelope{
		Success: false,
		Error:   &APIError{Message: msg, Code: code},
	})
}

// RespondDomainError translates a service/aggregate error into the envelope,
// deriving the HTTP status from the domain error code.
func RespondDomainError(c *gin.Context, err error) {
	ae := apierr.FromDomain(err)
	RespondError(c, ae.Status, ae.Code, err)
}
