package interview

import "context"

// Repository exposes CRUD operations for interview metadata.
type Repository interface {
	Create(ctx context.Context, itv *Interview) error
	FindByPublicID(ctx context.Context, publicID string) (*Interview, error)
	FindByUserID(ctx context.Context, userID string) ([]*Interview, error)
	UpdateSummaryStatus(ctx context.Context, id uint, status SummaryStatus) error
}

// MessageRepository is the append-only transcript store. Append assigns the
// ordering timestamp server-side; ListByInterviewID returns the canonical order.
type MessageRepository interface {
	Append(ctx context.Context, msg *Message) error
	ListByInterviewID(ctx context.Context, interviewID uint) ([]Message, error)
}

// SummaryRepository persists the finalized artifact.
type SummaryRepository interface {
	Create(ctx context.Context, summary *Summary) error
	FindByInterviewID(ctx context.Context, interviewID uint) (*Summary, error)
}
