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

// Repository persists interview metadata.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an interview repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the interview record.
func (r *Repository) Create(ctx context.Context, itv *domain.Interview) error {
	entity := entities.NewSchemaInterview(itv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create interview", err)
	}

	itv.ID = entity.ID
	itv.CreatedAt = entity.CreatedAt
	itv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches an interview by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Interview, error) {
	var entity entities.Interview
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, fmt.Sprintf("interview not found: %s", publicID), nil)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to fetch interview", err)
	}

	return entity.EtoD(), nil
}

// FindByUserID fetches the interviews owned by userID, newest first.
func (r *Repository) FindByUserID(ctx context.Context, userID string) ([]*domain.Interview, error) {
	var records []entities.Interview
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list interviews", err)
	}

	result := make([]*domain.Interview, len(records))
	for i := range records {
		result[i] = records[i].EtoD()
	}
	return result, nil
}

// UpdateSummaryStatus flips the summary status of an interview.
func (r *Repository) UpdateSummaryStatus(ctx context.Context, id uint, status domain.SummaryStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", id).
		Update("summary_status", string(status)).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to update interview summary status", err)
	}
	return nil
}

// Ensure interface compliance.
var _ domain.Repository = (*Repository)(nil)
