package interview

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/infrastructure/database/entities"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// SummaryRepository persists finalized summaries.
type SummaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository builds a summary repository.
func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// Create inserts the summary record.
func (r *SummaryRepository) Create(ctx context.Context, summary *domain.Summary) error {
	entity := entities.NewSchemaSummary(summary)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create summary", err)
	}

	summary.ID = entity.ID
	summary.CreatedAt = entity.CreatedAt
	return nil
}

// FindByInterviewID fetches the summary for an interview.
func (r *SummaryRepository) FindByInterviewID(ctx context.Context, interviewID uint) (*domain.Summary, error) {
	var entity entities.InterviewSummary
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, fmt.Sprintf("summary not found for interview %d", interviewID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch summary", err)
	}

	return entity.EtoD(), nil
}

// Ensure interface compliance.
var _ domain.SummaryRepository = (*SummaryRepository)(nil)
