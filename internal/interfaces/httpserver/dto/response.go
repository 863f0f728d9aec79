package dto

import (
	"time"

	"insightloop/interview-api/internal/domain/interview"
)

// InterviewPayload is the HTTP representation of an interview.
type InterviewPayload struct {
	ID            string    `json:"id"`
	Object        string    `json:"object"`
	Persona       string    `json:"persona"`
	Domain        string    `json:"domain"`
	SummaryStatus string    `json:"summary_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MessagePayload is the HTTP representation of a transcript turn.
type MessagePayload struct {
	ID        string    `json:"id"`
	Object    string    `json:"object"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SummaryPayload is the HTTP representation of a finalized summary.
type SummaryPayload struct {
	ID              string    `json:"id"`
	Object          string    `json:"object"`
	PainPoints      []string  `json:"pain_points"`
	Workarounds     []string  `json:"workarounds"`
	Tools           []string  `json:"tools"`
	Emotions        []string  `json:"emotions"`
	ConfidenceScore int       `json:"confidence_score"`
	RawSummary      string    `json:"raw_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

// MessageListPayload wraps an ordered transcript.
type MessageListPayload struct {
	Object string           `json:"object"`
	Data   []MessagePayload `json:"data"`
}

// InterviewListPayload wraps the caller's interviews.
type InterviewListPayload struct {
	Object string             `json:"object"`
	Data   []InterviewPayload `json:"data"`
}

// FromInterview converts the domain model.
func FromInterview(itv *interview.Interview) InterviewPayload {
	return InterviewPayload{
		ID:            itv.PublicID,
		Object:        "interview",
		Persona:       itv.Persona,
		Domain:        itv.Domain,
		SummaryStatus: string(itv.SummaryStatus),
		CreatedAt:     itv.CreatedAt,
		UpdatedAt:     itv.UpdatedAt,
	}
}

// FromInterviews converts a list of domain interviews.
func FromInterviews(interviews []*interview.Interview) InterviewListPayload {
	data := make([]InterviewPayload, 0, len(interviews))
	for _, itv := range interviews {
		data = append(data, FromInterview(itv))
	}
	return InterviewListPayload{Object: "list", Data: data}
}

// FromMessage converts a domain message.
func FromMessage(msg interview.Message) MessagePayload {
	return MessagePayload{
		ID:        msg.PublicID,
		Object:    "interview.message",
		Sender:    string(msg.Sender),
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

// FromMessages converts an ordered transcript.
func FromMessages(messages []interview.Message) MessageListPayload {
	data := make([]MessagePayload, 0, len(messages))
	for _, msg := range messages {
		data = append(data, FromMessage(msg))
	}
	return MessageListPayload{Object: "list", Data: data}
}

// FromSummary converts a domain summary.
func FromSummary(summary *interview.Summary) SummaryPayload {
	return SummaryPayload{
		ID:              summary.PublicID,
		Object:          "interview.summary",
		PainPoints:      summary.PainPoints,
		Workarounds:     summary.Workarounds,
		Tools:           summary.Tools,
		Emotions:        summary.Emotions,
		ConfidenceScore: summary.ConfidenceScore,
		RawSummary:      summary.RawSummary,
		CreatedAt:       summary.CreatedAt,
	}
}
