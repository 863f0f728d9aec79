package interview

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/domain/state"
)

// SummaryStatus tracks whether the interview has been synthesized.
type SummaryStatus string

const (
	SummaryStatusNone      SummaryStatus = "none"
	SummaryStatusCompleted SummaryStatus = "completed"
)

// Sender indicates who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatRole maps the stored sender onto the chat role the completion backend expects.
func (s Sender) ChatRole() string {
	if s == SenderUser {
		return llm.RoleUser
	}
	return llm.RoleAssistant
}

// Interview is one research-interview session. Immutable after creation
// except for the summary status flip at finalization.
type Interview struct {
	ID            uint          `json:"-"`
	PublicID      string        `json:"id"`
	UserID        string        `json:"-"`
	Persona       string        `json:"persona"`
	Domain        string        `json:"domain"`
	SummaryStatus SummaryStatus `json:"summary_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Message is one turn in an interview transcript. Append-only; the store
// assigns the creation timestamp that defines the canonical order.
type Message struct {
	ID          uint      `json:"-"`
	InterviewID uint      `json:"-"`
	PublicID    string    `json:"id"`
	Sender      Sender    `json:"sender"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary is the structured artifact produced at finalization. Immutable.
type Summary struct {
	ID              uint      `json:"-"`
	InterviewID     uint      `json:"-"`
	PublicID        string    `json:"id"`
	PainPoints      []string  `json:"pain_points"`
	Workarounds     []string  `json:"workarounds"`
	Tools           []string  `json:"tools"`
	Emotions        []string  `json:"emotions"`
	ConfidenceScore int       `json:"confidence_score"`
	RawSummary      string    `json:"raw_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewInterview creates an interview owned by userID.
func NewInterview(userID, persona, domain string) *Interview {
	now := time.Now()
	return &Interview{
		PublicID:      newPublicID("itv"),
		UserID:        userID,
		Persona:       persona,
		Domain:        domain,
		SummaryStatus: SummaryStatusNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewMessage creates an unpersisted message for the interview.
func NewMessage(interviewID uint, sender Sender, content string) *Message {
	return &Message{
		InterviewID: interviewID,
		PublicID:    newPublicID("msg"),
		Sender:      sender,
		Content:     content,
	}
}

// DeriveState computes the session state from the durable record shapes.
// The state is never stored; the transcript and summary are authoritative.
func DeriveState(messageCount int, summaryExists bool) state.State {
	switch {
	case summaryExists:
		return state.StateFinalized
	case messageCount == 0:
		return state.StateBootstrapping
	default:
		return state.StateActive
	}
}

func newPublicID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
