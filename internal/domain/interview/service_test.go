package interview_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/utils/platformerrors"
)

type fakeInterviewRepo struct {
	itv           *interview.Interview
	updateErr     error
	updatedStatus interview.SummaryStatus
	updateCalled  bool
}

func (r *fakeInterviewRepo) Create(ctx context.Context, itv *interview.Interview) error {
	itv.ID = 1
	r.itv = itv
	return nil
}

func (r *fakeInterviewRepo) FindByPublicID(ctx context.Context, publicID string) (*interview.Interview, error) {
	if r.itv != nil && r.itv.PublicID == publicID {
		clone := *r.itv
		return &clone, nil
	}
	return nil, notFound("interview not found")
}

func (r *fakeInterviewRepo) FindByUserID(ctx context.Context, userID string) ([]*interview.Interview, error) {
	if r.itv != nil && r.itv.UserID == userID {
		clone := *r.itv
		return []*interview.Interview{&clone}, nil
	}
	return []*interview.Interview{}, nil
}

func (r *fakeInterviewRepo) UpdateSummaryStatus(ctx context.Context, id uint, status interview.SummaryStatus) error {
	r.updateCalled = true
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedStatus = status
	return nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []interview.Message
	appendErr error
}

func (r *fakeMessageRepo) Append(ctx context.Context, msg *interview.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	msg.ID = uint(len(r.messages) + 1)
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) ListByInterviewID(ctx context.Context, interviewID uint) ([]interview.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]interview.Message, 0, len(r.messages))
	for _, msg := range r.messages {
		if msg.InterviewID == interviewID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) seed(interviewID uint, sender interview.Sender, content string) {
	_ = r.Append(context.Background(), interview.NewMessage(interviewID, sender, content))
}

type fakeSummaryRepo struct {
	summary   *interview.Summary
	createErr error
}

func (r *fakeSummaryRepo) Create(ctx context.Context, summary *interview.Summary) error {
	if r.createErr != nil {
		return r.createErr
	}
	summary.ID = 1
	r.summary = summary
	return nil
}

func (r *fakeSummaryRepo) FindByInterviewID(ctx context.Context, interviewID uint) (*interview.Summary, error) {
	if r.summary != nil && r.summary.InterviewID == interviewID {
		return r.summary, nil
	}
	return nil, notFound("summary not found")
}

type fakeProvider struct {
	mu           sync.Mutex
	requests     []llm.CompletionRequest
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (string, error)
}

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.completeFunc != nil {
		return p.completeFunc(ctx, req)
	}
	return "ok", nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func notFound(msg string) error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, msg, nil)
}

type testEnv struct {
	service    *interview.ServiceImpl
	interviews *fakeInterviewRepo
	messages   *fakeMessageRepo
	summaries  *fakeSummaryRepo
	provider   *fakeProvider
	itv        *interview.Interview
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	interviews := &fakeInterviewRepo{}
	messages := &fakeMessageRepo{}
	summaries := &fakeSummaryRepo{}
	provider := &fakeProvider{}

	synthesizer := interview.NewSynthesizer(provider, "gpt-4", zerolog.Nop())
	service := interview.NewService(interviews, messages, summaries, provider, synthesizer, "gpt-4", 0.7, zerolog.Nop())

	itv := interview.NewInterview("user-1", "freelance designer", "invoicing and getting paid")
	require.NoError(t, interviews.Create(context.Background(), itv))

	return &testEnv{
		service:    service,
		interviews: interviews,
		messages:   messages,
		summaries:  summaries,
		provider:   provider,
		itv:        itv,
	}
}

func TestCreate_RequiresPersonaAndDomain(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Create(context.Background(), interview.CreateParams{UserID: "user-1", Persona: "  ", Domain: "billing"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestBootstrap_GeneratesOpeningQuestion(t *testing.T) {
	env := newTestEnv(t)
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "Tell me about the last invoice you sent.", nil
	}

	history, err := env.service.Bootstrap(context.Background(), "user-1", env.itv.PublicID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, interview.SenderBot, history[0].Sender)
	assert.Equal(t, "Tell me about the last invoice you sent.", history[0].Content)

	require.Equal(t, 1, env.provider.callCount())
	req := env.provider.requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "freelance designer")
	assert.Contains(t, req.Messages[0].Content, "invoicing and getting paid")
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
}

func TestBootstrap_NoOpWhenHistoryExists(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")

	history, err := env.service.Bootstrap(context.Background(), "user-1", env.itv.PublicID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "What do you do for a living?", history[0].Content)
	assert.Equal(t, 0, env.provider.callCount(), "completion backend must not be called when history exists")
}

func TestExchange_AppendsBothTurnsInOrder(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "How do you invoice your clients today?", nil
	}

	history, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "I run a design studio")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, interview.SenderBot, history[0].Sender)
	assert.Equal(t, interview.SenderUser, history[1].Sender)
	assert.Equal(t, "I run a design studio", history[1].Content)
	assert.Equal(t, interview.SenderBot, history[2].Sender)
	assert.Equal(t, "How do you invoice your clients today?", history[2].Content)
}

func TestExchange_ChatIncludesUserTurnBeforeCompletion(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")

	_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "I run a design studio")
	require.NoError(t, err)

	require.Equal(t, 1, env.provider.callCount())
	req := env.provider.requests[0]
	require.Len(t, req.Messages, 3)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, llm.RoleUser, req.Messages[2].Role)
	assert.Equal(t, "I run a design studio", req.Messages[2].Content)

	assert.Equal(t, "gpt-4", req.Model)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.7, *req.Temperature, 0.0001)
}

func TestExchange_BackendFailureKeepsUserTurn(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "completion backend unreachable", nil)
	}

	_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "I run a design studio")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))

	history, err := env.messages.ListByInterviewID(context.Background(), env.itv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "the user turn stays persisted after a failed completion")
	assert.Equal(t, interview.SenderUser, history[1].Sender)
}

func TestExchange_RejectsEmptyText(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "   ")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestExchange_RequiresOpeningQuestion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "hello?")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Equal(t, 0, env.provider.callCount())

	history, listErr := env.messages.ListByInterviewID(context.Background(), env.itv.ID)
	require.NoError(t, listErr)
	assert.Empty(t, history, "no turn may be appended before the opening question exists")
}

func TestExchange_RejectsFinalizedInterview(t *testing.T) {
	env := newTestEnv(t)
	env.summaries.summary = &interview.Summary{InterviewID: env.itv.ID, PublicID: "sum_existing"}

	_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "one more thing")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Equal(t, 0, env.provider.callCount())
}

func TestFinalize_RequiresMinimumTranscript(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	_, err = env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, 0, env.provider.callCount())
}

func TestFinalize_SynthesizesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	env.messages.seed(env.itv.ID, interview.SenderUser, "I chase invoices all week")
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return `{"pain_points":["chasing invoices"],"workarounds":[],"tools":["spreadsheets"],"emotions":["frustrated"],"confidence_score":4,"raw_summary":"Spends significant time chasing unpaid invoices."}`, nil
	}

	summary, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.NoError(t, err)
	assert.Equal(t, []string{"chasing invoices"}, summary.PainPoints)
	assert.Equal(t, 4, summary.ConfidenceScore)
	assert.Equal(t, env.itv.ID, summary.InterviewID)

	require.NotNil(t, env.summaries.summary)
	assert.Equal(t, interview.SummaryStatusCompleted, env.interviews.updatedStatus)
}

func TestFinalize_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	existing := &interview.Summary{InterviewID: env.itv.ID, PublicID: "sum_existing", ConfidenceScore: 4}
	env.summaries.summary = existing

	summary, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.NoError(t, err)
	assert.Equal(t, "sum_existing", summary.PublicID)
	assert.Equal(t, 0, env.provider.callCount(), "no new synthesis for an already finalized interview")
}

func TestFinalize_StatusUpdateFailureIsNonFatal(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	env.messages.seed(env.itv.ID, interview.SenderUser, "I chase invoices all week")
	env.interviews.updateErr = notFound("interview disappeared")

	summary, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, env.interviews.updateCalled)
}

func TestFinalize_SynthesisFailureLeavesInterviewActive(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")
	env.messages.seed(env.itv.ID, interview.SenderUser, "I chase invoices all week")
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "completion backend unreachable", nil)
	}

	_, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.Error(t, err)
	assert.Nil(t, env.summaries.summary)
	assert.False(t, env.interviews.updateCalled)

	// A later exchange still works.
	env.provider.completeFunc = nil
	_, err = env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "still here")
	require.NoError(t, err)
}

func TestOwnership(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Get(context.Background(), "someone-else", env.itv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	_, err = env.service.Get(context.Background(), "", env.itv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnauthorized))

	_, err = env.service.Get(context.Background(), "user-1", "itv_missing")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestSingleFlight_RejectsConcurrentOperation(t *testing.T) {
	env := newTestEnv(t)
	env.messages.seed(env.itv.ID, interview.SenderBot, "What do you do for a living?")

	entered := make(chan struct{})
	release := make(chan struct{})
	env.provider.completeFunc = func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		close(entered)
		<-release
		return "reply", nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.service.Exchange(context.Background(), "user-1", env.itv.PublicID, "first")
		done <- err
	}()

	<-entered
	_, err := env.service.Finalize(context.Background(), "user-1", env.itv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))

	close(release)
	require.NoError(t, <-done)
}
