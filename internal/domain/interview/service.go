package interview

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/domain/prompts"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// MinMessagesForFinalize guards against synthesizing a near-empty transcript.
const MinMessagesForFinalize = 2

// Service drives the interview session lifecycle.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Interview, error)
	Get(ctx context.Context, userID, publicID string) (*Interview, error)
	List(ctx context.Context, userID string) ([]*Interview, error)
	Bootstrap(ctx context.Context, userID, publicID string) ([]Message, error)
	Exchange(ctx context.Context, userID, publicID, text string) ([]Message, error)
	ListMessages(ctx context.Context, userID, publicID string) ([]Message, error)
	Finalize(ctx context.Context, userID, publicID string) (*Summary, error)
	GetSummary(ctx context.Context, userID, publicID string) (*Summary, error)
}

// CreateParams carries the inputs for a new interview.
type CreateParams struct {
	UserID  string
	Persona string
	Domain  string
}

// ServiceImpl provides the domain implementation.
type ServiceImpl struct {
	interviews  Repository
	messages    MessageRepository
	summaries   SummaryRepository
	provider    llm.Provider
	synthesizer *Synthesizer
	model       string
	temperature float64
	log         zerolog.Logger

	flight flightGuard
}

// NewService wires dependencies.
func NewService(
	interviews Repository,
	messages MessageRepository,
	summaries SummaryRepository,
	provider llm.Provider,
	synthesizer *Synthesizer,
	model string,
	temperature float64,
	log zerolog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		interviews:  interviews,
		messages:    messages,
		summaries:   summaries,
		provider:    provider,
		synthesizer: synthesizer,
		model:       model,
		temperature: temperature,
		log:         log.With().Str("component", "interview-service").Logger(),
		flight:      flightGuard{inflight: make(map[string]struct{})},
	}
}

// Create persists a new interview owned by the caller.
func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*Interview, error) {
	persona := strings.TrimSpace(params.Persona)
	domain := strings.TrimSpace(params.Domain)
	if persona == "" || domain == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "persona and domain are required", nil)
	}

	itv := NewInterview(params.UserID, persona, domain)
	if err := s.interviews.Create(ctx, itv); err != nil {
		return nil, err
	}

	s.log.Info().Str("interview_id", itv.PublicID).Str("user_id", itv.UserID).Msg("interview created")
	return itv, nil
}

// Get fetches an interview, enforcing ownership.
func (s *ServiceImpl) Get(ctx context.Context, userID, publicID string) (*Interview, error) {
	return s.getOwned(ctx, userID, publicID)
}

// List returns the caller's interviews.
func (s *ServiceImpl) List(ctx context.Context, userID string) ([]*Interview, error) {
	return s.interviews.FindByUserID(ctx, userID)
}

// Bootstrap generates the opening question for an interview with no turns.
// It is a no-op when history already exists; nothing is appended unless the
// completion call succeeds, so a failed bootstrap is safe to retry.
func (s *ServiceImpl) Bootstrap(ctx context.Context, userID, publicID string) ([]Message, error) {
	if !s.flight.begin(publicID) {
		return nil, s.conflictInFlight(ctx, publicID)
	}
	defer s.flight.end(publicID)

	itv, err := s.getOwned(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.ListByInterviewID(ctx, itv.ID)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		return history, nil
	}

	opening, err := s.complete(ctx, []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: prompts.InterviewerDirective(itv.Persona, itv.Domain)},
		{Role: llm.RoleUser, Content: prompts.BootstrapInstruction},
	})
	if err != nil {
		return nil, err
	}

	if err := s.messages.Append(ctx, NewMessage(itv.ID, SenderBot, opening)); err != nil {
		return nil, err
	}

	s.log.Info().Str("interview_id", itv.PublicID).Msg("interview bootstrapped")
	return s.messages.ListByInterviewID(ctx, itv.ID)
}

// Exchange appends the user turn, obtains the assistant reply, and returns
// the authoritative persisted history. The user turn is durable before the
// completion call, so a backend failure never loses caller input.
func (s *ServiceImpl) Exchange(ctx context.Context, userID, publicID, text string) ([]Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message text is required", nil)
	}

	if !s.flight.begin(publicID) {
		return nil, s.conflictInFlight(ctx, publicID)
	}
	defer s.flight.end(publicID)

	itv, err := s.getOwned(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.ListByInterviewID(ctx, itv.ID)
	if err != nil {
		return nil, err
	}
	summaryExists, err := s.summaryExists(ctx, itv.ID)
	if err != nil {
		return nil, err
	}

	sessionState := DeriveState(len(history), summaryExists)
	if sessionState.IsTerminal() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "interview is finalized", nil)
	}
	if !sessionState.AcceptsExchange() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "interview has no opening question yet", nil)
	}

	if err := s.messages.Append(ctx, NewMessage(itv.ID, SenderUser, text)); err != nil {
		return nil, err
	}

	// Re-read after the durable append so the model always sees the
	// caller's latest turn.
	history, err = s.messages.ListByInterviewID(ctx, itv.ID)
	if err != nil {
		return nil, err
	}

	chat := make([]llm.ChatMessage, 0, len(history)+1)
	chat = append(chat, llm.ChatMessage{
		Role:    llm.RoleSystem,
		Content: prompts.InterviewerDirective(itv.Persona, itv.Domain),
	})
	for _, msg := range history {
		chat = append(chat, llm.ChatMessage{Role: msg.Sender.ChatRole(), Content: msg.Content})
	}

	reply, err := s.complete(ctx, chat)
	if err != nil {
		// The user turn stays persisted; the caller re-reads history to resync.
		return nil, err
	}

	if err := s.messages.Append(ctx, NewMessage(itv.ID, SenderBot, reply)); err != nil {
		return nil, err
	}

	return s.messages.ListByInterviewID(ctx, itv.ID)
}

// ListMessages returns the ordered transcript for the caller's interview.
func (s *ServiceImpl) ListMessages(ctx context.Context, userID, publicID string) ([]Message, error) {
	itv, err := s.getOwned(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByInterviewID(ctx, itv.ID)
}

// Finalize synthesizes the transcript into a Summary. Finalize is idempotent:
// an already-persisted summary is returned as-is. The summary record is the
// source of truth; the status flip on the interview is best-effort.
func (s *ServiceImpl) Finalize(ctx context.Context, userID, publicID string) (*Summary, error) {
	if !s.flight.begin(publicID) {
		return nil, s.conflictInFlight(ctx, publicID)
	}
	defer s.flight.end(publicID)

	itv, err := s.getOwned(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}

	existing, err := s.summaries.FindByInterviewID(ctx, itv.ID)
	if err == nil {
		return existing, nil
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, err
	}

	history, err := s.messages.ListByInterviewID(ctx, itv.ID)
	if err != nil {
		return nil, err
	}
	if len(history) < MinMessagesForFinalize {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "interview has too few messages to summarize", nil)
	}

	summary, err := s.synthesizer.Synthesize(ctx, itv, history)
	if err != nil {
		// The session stays active; finalize may be retried.
		return nil, err
	}

	if err := s.summaries.Create(ctx, summary); err != nil {
		return nil, err
	}

	if err := s.interviews.UpdateSummaryStatus(ctx, itv.ID, SummaryStatusCompleted); err != nil {
		platformerrors.LogError(s.log, platformerrors.AsError(ctx, platformerrors.LayerDomain,
			err, "update interview summary status"))
	}

	s.log.Info().Str("interview_id", itv.PublicID).Int("confidence", summary.ConfidenceScore).Msg("interview finalized")
	return summary, nil
}

// GetSummary returns the persisted summary for the caller's interview.
func (s *ServiceImpl) GetSummary(ctx context.Context, userID, publicID string) (*Summary, error) {
	itv, err := s.getOwned(ctx, userID, publicID)
	if err != nil {
		return nil, err
	}
	return s.summaries.FindByInterviewID(ctx, itv.ID)
}

func (s *ServiceImpl) getOwned(ctx context.Context, userID, publicID string) (*Interview, error) {
	if userID == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "caller identity is required", nil)
	}

	itv, err := s.interviews.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if itv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "interview belongs to another user", nil)
	}
	return itv, nil
}

func (s *ServiceImpl) summaryExists(ctx context.Context, interviewID uint) (bool, error) {
	_, err := s.summaries.FindByInterviewID(ctx, interviewID)
	if err == nil {
		return true, nil
	}
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return false, nil
	}
	return false, err
}

func (s *ServiceImpl) complete(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	temperature := s.temperature
	return s.provider.Complete(ctx, llm.CompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: &temperature,
	})
}

func (s *ServiceImpl) conflictInFlight(ctx context.Context, publicID string) error {
	s.log.Warn().Str("interview_id", publicID).Msg("rejected concurrent operation")
	return platformerrors.NewError(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeConflict, "another operation is in flight for this interview", nil)
}

// flightGuard serializes mutating operations per interview. A second
// bootstrap, exchange, or finalize for the same interview is rejected
// rather than queued.
type flightGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func (g *flightGuard) begin(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[id]; busy {
		return false
	}
	g.inflight[id] = struct{}{}
	return true
}

func (g *flightGuard) end(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, id)
}

// Ensure interface compliance.
var _ Service = (*ServiceImpl)(nil)
