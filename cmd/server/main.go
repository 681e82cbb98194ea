package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/avosdroits/avosdroits-backend/internal/catalog"
	dataagg "github.com/avosdroits/avosdroits-backend/internal/data/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/data/db"
	"github.com/avosdroits/avosdroits-backend/internal/data/repos"
	domainagg "github.com/avosdroits/avosdroits-backend/internal/domain/aggregates"
	"github.com/avosdroits/avosdroits-backend/internal/handlers"
	"github.com/avosdroits/avosdroits-backend/internal/middleware"
	"github.com/avosdroits/avosdroits-backend/internal/observability"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/envutil"
	"github.com/avosdroits/avosdroits-backend/internal/pkg/logger"
	"github.com/avosdroits/avosdroits-backend/internal/server"
	"github.com/avosdroits/avosdroits-backend/internal/services"
	"github.com/avosdroits/avosdroits-backend/internal/validation"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability
	metrics := observability.Init(log)
	shutdownOtel := observability.InitOTel(rootCtx, log, observability.OtelConfig{
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "avosdroits"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})

	// Postgres
	log.Info("Connecting to postgres...")
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	if observability.Enabled() {
		metrics.StartServer(rootCtx, log, envutil.String("METRICS_ADDR", ":9091"))
		metrics.StartPostgresCollector(rootCtx, log, thePG)
	}

	// Question catalog
	log.Info("Loading question catalog...")
	seed, err := catalog.SeedQuestions()
	if err != nil {
		log.Error("Catalog seed failed", "error", err)
		os.Exit(1)
	}
	questionCatalog, err := catalog.New(log, seed)
	if err != nil {
		log.Error("Catalog init failed", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos...")
	questionnaireRepo := repos.NewQuestionnaireRepo(thePG, log)
	sectionRepo := repos.NewSectionRepo(thePG, log)
	responseRepo := repos.NewResponseRepo(thePG, log)
	draftRepo := repos.NewDraftResponseRepo(thePG, log)

	// Aggregate
	versionPolicy := domainagg.ParseVersionPolicy(envutil.String("QUESTIONNAIRE_VERSION_POLICY", ""))
	questionnaireAggregate := dataagg.NewQuestionnaireAggregate(dataagg.QuestionnaireDeps{
		Base: dataagg.BaseDeps{
			DB:    thePG,
			Log:   log,
			Hooks: dataagg.NewObservabilityHooks(metrics),
		},
		Questionnaires: questionnaireRepo,
		Sections:       sectionRepo,
		Responses:      responseRepo,
		VersionPolicy:  versionPolicy,
	})

	// Services
	log.Info("Setting up services...")
	validator := validation.New(validation.WithCatalog(questionCatalog.ValidateAnswer))
	questionnaireService := services.NewQuestionnaireService(log, validator, questionnaireAggregate, metrics)
	catalogService := services.NewCatalogService(log, questionCatalog)
	draftService := services.NewDraftResponseService(log, draftRepo, questionCatalog, metrics)

	// Handlers + middleware
	authMiddleware := middleware.NewAuthMiddleware(log)
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:       authMiddleware,
		Metrics:              metrics,
		QuestionnaireHandler: handlers.NewQuestionnaireHandler(questionnaireService),
		QuestionHandler:      handlers.NewQuestionHandler(catalogService),
		DraftResponseHandler: handlers.NewDraftResponseHandler(draftService),
	})

	port := envutil.String("PORT", "8080")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(rootCtx)
	g.Go(func() error {
		log.Info("Server listening", "port", port, "version_policy", string(versionPolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if shutdownOtel != nil {
			if err := shutdownOtel(shutdownCtx); err != nil {
				log.Warn("Otel shutdown failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}
