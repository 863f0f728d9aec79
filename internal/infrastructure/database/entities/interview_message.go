package entities

import (
	"time"

	"insightloop/interview-api/internal/domain/interview"
)

// InterviewMessage stores one transcript turn. The store-assigned CreatedAt
// defines the canonical conversation order; rows are never updated.
type InterviewMessage struct {
	ID          uint      `gorm:"primaryKey"`
	InterviewID uint      `gorm:"index:idx_message_interview;not null"`
	PublicID    string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Sender      string    `gorm:"type:varchar(16);not null"`
	Content     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_message_interview"`
}

// TableName specifies the table name for InterviewMessage.
func (InterviewMessage) TableName() string {
	return "interview_messages"
}

// EtoD converts the database entity to the domain model.
func (m *InterviewMessage) EtoD() *interview.Message {
	return &interview.Message{
		ID:          m.ID,
		InterviewID: m.InterviewID,
		PublicID:    m.PublicID,
		Sender:      interview.Sender(m.Sender),
		Content:     m.Content,
		CreatedAt:   m.CreatedAt,
	}
}

// NewSchemaMessage creates a database entity from the domain model.
func NewSchemaMessage(msg *interview.Message) *InterviewMessage {
	return &InterviewMessage{
		ID:          msg.ID,
		InterviewID: msg.InterviewID,
		PublicID:    msg.PublicID,
		Sender:      string(msg.Sender),
		Content:     msg.Content,
	}
}
