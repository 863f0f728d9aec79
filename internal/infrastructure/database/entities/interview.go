package entities

import (
	"time"

	"insightloop/interview-api/internal/domain/interview"
)

// Interview represents the database schema for interview sessions.
type Interview struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID      string `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID        string `gorm:"type:varchar(64);index:idx_interview_user;not null"`
	Persona       string `gorm:"type:varchar(256);not null"`
	Domain        string `gorm:"type:varchar(256);not null"`
	SummaryStatus string `gorm:"type:varchar(20);not null;default:'none'"`

	Messages []InterviewMessage `gorm:"foreignKey:InterviewID"`
}

// TableName specifies the table name for Interview.
func (Interview) TableName() string {
	return "interviews"
}

// EtoD converts the database entity to the domain model.
func (i *Interview) EtoD() *interview.Interview {
	return &interview.Interview{
		ID:            i.ID,
		PublicID:      i.PublicID,
		UserID:        i.UserID,
		Persona:       i.Persona,
		Domain:        i.Domain,
		SummaryStatus: interview.SummaryStatus(i.SummaryStatus),
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// NewSchemaInterview creates a database entity from the domain model.
func NewSchemaInterview(itv *interview.Interview) *Interview {
	return &Interview{
		ID:            itv.ID,
		PublicID:      itv.PublicID,
		UserID:        itv.UserID,
		Persona:       itv.Persona,
		Domain:        itv.Domain,
		SummaryStatus: string(itv.SummaryStatus),
		CreatedAt:     itv.CreatedAt,
		UpdatedAt:     itv.UpdatedAt,
	}
}
