package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/avosdroits/avosdroits-backend/internal/handlers"
	"github.com/avosdroits/avosdroits-backend/internal/middleware"
	"github.com/avosdroits/avosdroits-backend/internal/observability"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/envutil"
)

type RouterConfig struct {
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *observability.Metrics

	QuestionnaireHandler *handlers.QuestionnaireHandler
	QuestionHandler      *handlers.QuestionHandler
	DraftResponseHandler *handlers.DraftResponseHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(envutil.String("OTEL_SERVICE_NAME", "avosdroits")))
	router.Use(middleware.Metrics(cfg.Metrics))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	// The full question template is public so the frontend can render the
	// form before the user signs in.
	api.GET("/questionnaire/questions", cfg.QuestionHandler.GetTemplate)
	api.GET("/questionnaire/questions/section/:section_id", cfg.QuestionHandler.GetSectionQuestions)
	api.GET("/questionnaire/questions/:id", cfg.QuestionHandler.GetQuestion)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Questionnaire versions
	protected.POST("/questionnaire/submit", cfg.QuestionnaireHandler.Submit)
	protected.PUT("/questionnaire/current", cfg.QuestionnaireHandler.Replace)
	protected.GET("/questionnaire/current", cfg.QuestionnaireHandler.GetCurrent)
	protected.GET("/questionnaire/version/:version", cfg.QuestionnaireHandler.GetVersion)
	protected.GET("/questionnaire/history", cfg.QuestionnaireHandler.GetHistory)
	protected.POST("/questionnaire/validate-answer", cfg.QuestionHandler.ValidateAnswer)

	// Draft responses (incremental save)
	protected.POST("/questionnaire/responses", cfg.DraftResponseHandler.Save)
	protected.GET("/questionnaire/responses", cfg.DraftResponseHandler.List)
	protected.GET("/questionnaire/responses/:id", cfg.DraftResponseHandler.Get)
	protected.PUT("/questionnaire/responses/:id", cfg.DraftResponseHandler.Update)
	protected.DELETE("/questionnaire/responses/:id", cfg.DraftResponseHandler.Delete)
	protected.DELETE("/questionnaire/responses/session/:session_id", cfg.DraftResponseHandler.DeleteSession)

	// ===============
	// || Admin     ||
	// ===============
	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	admin.POST("/questionnaire/questions", cfg.QuestionHandler.CreateQuestion)
	admin.PUT("/questionnaire/questions/:id", cfg.QuestionHandler.UpdateQuestion)
	admin.DELETE("/questionnaire/questions/:id", cfg.QuestionHandler.DeleteQuestion)

	return router
}

func allowedOrigins() []string {
	raw := envutil.String("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
