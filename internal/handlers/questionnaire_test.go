package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/services"
)

type stubQuestionnaireService struct {
	submit     func(ctx context.Context, req services.SubmitQuestionnaireRequest) (*services.QuestionnaireDTO, error)
	getCurrent func(ctx context.Context) (*services.QuestionnaireDTO, error)
	getVersion func(ctx context.Context, version int) (*services.QuestionnaireDTO, error)
}

func (s *stubQuestionnaireService) Submit(ctx context.Context, req services.SubmitQuestionnaireRequest) (*services.QuestionnaireDTO, error) {
	return s.submit(ctx, req)
}

func (s *stubQuestionnaireService) Replace(ctx context.Context, req services.SubmitQuestionnaireRequest) (*services.QuestionnaireDTO, error) {
	return s.submit(ctx, req)
}

func (s *stubQuestionnaireService) GetCurrent(ctx context.Context) (*services.QuestionnaireDTO, error) {
	return s.getCurrent(ctx)
}

func (s *stubQuestionnaireService) GetVersion(ctx context.Context, version int) (*services.QuestionnaireDTO, error) {
	return s.getVersion(ctx, version)
}

func (s *stubQuestionnaireService) GetHistory(ctx context.Context) ([]*services.QuestionnaireDTO, error) {
	return nil, nil
}

func questionnaireRouter(svc services.QuestionnaireService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	qh := NewQuestionnaireHandler(svc)
	r := gin.New()
	r.POST("/submit", qh.Submit)
	r.GET("/current", qh.GetCurrent)
	r.GET("/version/:version", qh.GetVersion)
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func TestSubmitEnvelope(t *testing.T) {
	svc := &stubQuestionnaireService{
		submit: func(_ context.Context, req services.SubmitQuestionnaireRequest) (*services.QuestionnaireDTO, error) {
			return &services.QuestionnaireDTO{Version: 1}, nil
		},
	}
	r := questionnaireRouter(svc)

	body := `{"sections":[{"section_id":"personal_info","answers":[]}]}`
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: %d (%s)", w.Code, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Error != nil {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	r := questionnaireRouter(&stubQuestionnaireService{})

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(`{"sections": 5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Success || env.Error == nil || env.Error.Code != "validation" {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		code   domainagg.ErrorCode
		status int
	}{
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeInvariantViolation, http.StatusUnprocessableEntity},
		{domainagg.CodeRetryable, http.StatusServiceUnavailable},
		{domainagg.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &stubQuestionnaireService{
			getCurrent: func(_ context.Context) (*services.QuestionnaireDTO, error) {
				return nil, domainagg.NewError(tc.code, "test", "boom", nil)
			},
		}
		r := questionnaireRouter(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/current", nil))

		if w.Code != tc.status {
			t.Fatalf("code %s: status want=%d got=%d", tc.code, tc.status, w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Success || env.Error == nil || env.Error.Code != string(tc.code) {
			t.Fatalf("code %s: envelope %+v", tc.code, env)
		}
	}
}

func TestGetVersionParsesParam(t *testing.T) {
	svc := &stubQuestionnaireService{
		getVersion: func(_ context.Context, version int) (*services.QuestionnaireDTO, error) {
			return &services.QuestionnaireDTO{Version: version}, nil
		},
	}
	r := questionnaireRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version/3", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version/latest", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric version: status %d", w.Code)
	}
}
