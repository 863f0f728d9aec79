package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"insightloop/interview-api/internal/domain/interview"
)

// InterviewSummary stores the finalized artifact. The unique index on
// InterviewID enforces at most one summary per interview.
type InterviewSummary struct {
	ID          uint   `gorm:"primaryKey"`
	InterviewID uint   `gorm:"uniqueIndex;not null"`
	PublicID    string `gorm:"type:varchar(50);uniqueIndex;not null"`

	PainPoints      datatypes.JSON `gorm:"type:jsonb"`
	Workarounds     datatypes.JSON `gorm:"type:jsonb"`
	Tools           datatypes.JSON `gorm:"type:jsonb"`
	Emotions        datatypes.JSON `gorm:"type:jsonb"`
	ConfidenceScore int            `gorm:"not null"`
	RawSummary      string         `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for InterviewSummary.
func (InterviewSummary) TableName() string {
	return "interview_summaries"
}

// EtoD converts the database entity to the domain model.
func (s *InterviewSummary) EtoD() *interview.Summary {
	return &interview.Summary{
		ID:              s.ID,
		InterviewID:     s.InterviewID,
		PublicID:        s.PublicID,
		PainPoints:      decodeStringList(s.PainPoints),
		Workarounds:     decodeStringList(s.Workarounds),
		Tools:           decodeStringList(s.Tools),
		Emotions:        decodeStringList(s.Emotions),
		ConfidenceScore: s.ConfidenceScore,
		RawSummary:      s.RawSummary,
		CreatedAt:       s.CreatedAt,
	}
}

// NewSchemaSummary creates a database entity from the domain model.
func NewSchemaSummary(summary *interview.Summary) *InterviewSummary {
	return &InterviewSummary{
		ID:              summary.ID,
		InterviewID:     summary.InterviewID,
		PublicID:        summary.PublicID,
		PainPoints:      encodeStringList(summary.PainPoints),
		Workarounds:     encodeStringList(summary.Workarounds),
		Tools:           encodeStringList(summary.Tools),
		Emotions:        encodeStringList(summary.Emotions),
		ConfidenceScore: summary.ConfidenceScore,
		RawSummary:      summary.RawSummary,
	}
}

func encodeStringList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func decodeStringList(raw datatypes.JSON) []string {
	values := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &values)
	}
	return values
}
