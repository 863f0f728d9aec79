package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"insightloop/interview-api/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes for the interview domain.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Interview{},
		&entities.InterviewMessage{},
		&entities.InterviewSummary{},
	); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}
