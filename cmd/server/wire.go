//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"insightloop/interview-api/internal/config"
	interviewDomain "insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/infrastructure/auth"
	"insightloop/interview-api/internal/infrastructure/database"
	"insightloop/interview-api/internal/infrastructure/llmprovider"
	"insightloop/interview-api/internal/infrastructure/logger"
	interviewrepo "insightloop/interview-api/internal/infrastructure/repository/interview"
	"insightloop/interview-api/internal/interfaces/httpserver"
)

var interviewSet = wire.NewSet(
	interviewrepo.NewRepository,
	wire.Bind(new(interviewDomain.Repository), new(*interviewrepo.Repository)),
	interviewrepo.NewMessageRepository,
	wire.Bind(new(interviewDomain.MessageRepository), new(*interviewrepo.MessageRepository)),
	interviewrepo.NewSummaryRepository,
	wire.Bind(new(interviewDomain.SummaryRepository), new(*interviewrepo.SummaryRepository)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newSynthesizer,
	newInterviewService,
)

// BuildApplication demonstrates how to assemble the interview service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		interviewSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMTimeout)
}

func newSynthesizer(provider llm.Provider, cfg *config.Config, log zerolog.Logger) *interviewDomain.Synthesizer {
	return interviewDomain.NewSynthesizer(provider, cfg.LLMModel, log)
}

func newInterviewService(
	interviews interviewDomain.Repository,
	messages interviewDomain.MessageRepository,
	summaries interviewDomain.SummaryRepository,
	provider llm.Provider,
	synthesizer *interviewDomain.Synthesizer,
	cfg *config.Config,
	log zerolog.Logger,
) interviewDomain.Service {
	return interviewDomain.NewService(interviews, messages, summaries, provider, synthesizer, cfg.LLMModel, cfg.LLMTemperature, log)
}
