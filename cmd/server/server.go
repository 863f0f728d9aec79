package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"insightloop/interview-api/internal/config"
	"insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/infrastructure/auth"
	"insightloop/interview-api/internal/infrastructure/database"
	"insightloop/interview-api/internal/infrastructure/llmprovider"
	"insightloop/interview-api/internal/infrastructure/logger"
	"insightloop/interview-api/internal/infrastructure/observability"
	interviewrepo "insightloop/interview-api/internal/infrastructure/repository/interview"
	"insightloop/interview-api/internal/interfaces/httpserver"
)

// @title Interview API
// @version 1.0
// @description Runs AI guided discovery interviews and synthesizes structured research summaries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	interviewRepository := interviewrepo.NewRepository(db)
	messageRepository := interviewrepo.NewMessageRepository(db)
	summaryRepository := interviewrepo.NewSummaryRepository(db)
	llmClient := llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
	synthesizer := interview.NewSynthesizer(llmClient, cfg.LLMModel, log)

	interviewService := interview.NewService(
		interviewRepository,
		messageRepository,
		summaryRepository,
		llmClient,
		synthesizer,
		cfg.LLMModel,
		cfg.LLMTemperature,
		log,
	)

	httpServer := httpserver.New(cfg, log, interviewService, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
