package interview

import (
	"context"

	"gorm.io/gorm"

	domain "insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/infrastructure/database/entities"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// MessageRepository is the gorm-backed transcript store. Rows are append-only;
// the database assigns created_at, which defines the canonical turn order.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append durably inserts one transcript turn.
func (r *MessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to append message", err)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListByInterviewID returns all turns in canonical order. The id tiebreak
// keeps turns created within the same timestamp tick stable.
func (r *MessageRepository) ListByInterviewID(ctx context.Context, interviewID uint) ([]domain.Message, error) {
	var records []entities.InterviewMessage
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list messages", err)
	}

	result := make([]domain.Message, len(records))
	for i := range records {
		result[i] = *records[i].EtoD()
	}
	return result, nil
}

// Ensure interface compliance.
var _ domain.MessageRepository = (*MessageRepository)(nil)
