package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/infrastructure/auth"
	"insightloop/interview-api/internal/interfaces/httpserver/handlers"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// MockInterviewService is a mock implementation of interview.Service for testing.
type MockInterviewService struct {
	CreateFunc       func(ctx context.Context, params interview.CreateParams) (*interview.Interview, error)
	GetFunc          func(ctx context.Context, userID, publicID string) (*interview.Interview, error)
	ListFunc         func(ctx context.Context, userID string) ([]*interview.Interview, error)
	BootstrapFunc    func(ctx context.Context, userID, publicID string) ([]interview.Message, error)
	ExchangeFunc     func(ctx context.Context, userID, publicID, text string) ([]interview.Message, error)
	ListMessagesFunc func(ctx context.Context, userID, publicID string) ([]interview.Message, error)
	FinalizeFunc     func(ctx context.Context, userID, publicID string) (*interview.Summary, error)
	GetSummaryFunc   func(ctx context.Context, userID, publicID string) (*interview.Summary, error)
}

func (m *MockInterviewService) Create(ctx context.Context, params interview.CreateParams) (*interview.Interview, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockInterviewService) Get(ctx context.Context, userID, publicID string) (*interview.Interview, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockInterviewService) List(ctx context.Context, userID string) ([]*interview.Interview, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockInterviewService) Bootstrap(ctx context.Context, userID, publicID string) ([]interview.Message, error) {
	if m.BootstrapFunc != nil {
		return m.BootstrapFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockInterviewService) Exchange(ctx context.Context, userID, publicID, text string) ([]interview.Message, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, userID, publicID, text)
	}
	return nil, nil
}

func (m *MockInterviewService) ListMessages(ctx context.Context, userID, publicID string) ([]interview.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockInterviewService) Finalize(ctx context.Context, userID, publicID string) (*interview.Summary, error) {
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockInterviewService) GetSummary(ctx context.Context, userID, publicID string) (*interview.Summary, error) {
	if m.GetSummaryFunc != nil {
		return m.GetSummaryFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func setupInterviewTestRouter(handler *handlers.InterviewHandler, identity string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if identity != "" {
		r.Use(func(c *gin.Context) {
			c.Set(auth.IdentityKey, identity)
			c.Next()
		})
	}
	v1 := r.Group("/v1/interviews")
	{
		v1.POST("", handler.Create)
		v1.GET("", handler.List)
		v1.GET("/:interview_id", handler.Get)
		v1.POST("/:interview_id/bootstrap", handler.Bootstrap)
		v1.GET("/:interview_id/messages", handler.ListMessages)
		v1.POST("/:interview_id/messages", handler.SendMessage)
		v1.POST("/:interview_id/finalize", handler.Finalize)
		v1.GET("/:interview_id/summary", handler.GetSummary)
	}
	return r
}

func TestInterviewHandler_Create(t *testing.T) {
	mockService := &MockInterviewService{
		CreateFunc: func(ctx context.Context, params interview.CreateParams) (*interview.Interview, error) {
			return &interview.Interview{
				PublicID:      "itv_123",
				UserID:        params.UserID,
				Persona:       params.Persona,
				Domain:        params.Domain,
				SummaryStatus: interview.SummaryStatusNone,
				CreatedAt:     time.Now(),
			}, nil
		},
	}

	handler := handlers.NewInterviewHandler(mockService, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "user-1")

	body := bytes.NewBufferString(`{"persona":"freelance designer","domain":"invoicing"}`)
	req, _ := http.NewRequest("POST", "/v1/interviews", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response["id"] != "itv_123" {
		t.Errorf("Expected interview id 'itv_123', got %v", response["id"])
	}
	if response["summary_status"] != "none" {
		t.Errorf("Expected summary_status 'none', got %v", response["summary_status"])
	}
}

func TestInterviewHandler_Create_MissingBody(t *testing.T) {
	handler := handlers.NewInterviewHandler(&MockInterviewService{}, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "user-1")

	req, _ := http.NewRequest("POST", "/v1/interviews", bytes.NewBufferString(`{"persona":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestInterviewHandler_RequiresIdentity(t *testing.T) {
	handler := handlers.NewInterviewHandler(&MockInterviewService{}, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "")

	req, _ := http.NewRequest("GET", "/v1/interviews", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestInterviewHandler_SendMessage(t *testing.T) {
	var gotText string
	mockService := &MockInterviewService{
		ExchangeFunc: func(ctx context.Context, userID, publicID, text string) ([]interview.Message, error) {
			gotText = text
			return []interview.Message{
				{PublicID: "msg_1", Sender: interview.SenderBot, Content: "What do you do?"},
				{PublicID: "msg_2", Sender: interview.SenderUser, Content: text},
				{PublicID: "msg_3", Sender: interview.SenderBot, Content: "Tell me more."},
			}, nil
		},
	}

	handler := handlers.NewInterviewHandler(mockService, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "user-1")

	body := bytes.NewBufferString(`{"content":"I run a bakery"}`)
	req, _ := http.NewRequest("POST", "/v1/interviews/itv_123/messages", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotText != "I run a bakery" {
		t.Errorf("Expected exchange text to be forwarded, got %q", gotText)
	}

	var response struct {
		Object string `json:"object"`
		Data   []struct {
			Sender string `json:"sender"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Object != "list" {
		t.Errorf("Expected object 'list', got %q", response.Object)
	}
	if len(response.Data) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(response.Data))
	}
	if response.Data[2].Sender != "bot" {
		t.Errorf("Expected last sender 'bot', got %q", response.Data[2].Sender)
	}
}

func TestInterviewHandler_Finalize(t *testing.T) {
	mockService := &MockInterviewService{
		FinalizeFunc: func(ctx context.Context, userID, publicID string) (*interview.Summary, error) {
			return &interview.Summary{
				PublicID:        "sum_123",
				PainPoints:      []string{"late payments"},
				Workarounds:     []string{},
				Tools:           []string{},
				Emotions:        []string{},
				ConfidenceScore: 4,
				RawSummary:      "Struggles with late payments.",
			}, nil
		},
	}

	handler := handlers.NewInterviewHandler(mockService, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "user-1")

	req, _ := http.NewRequest("POST", "/v1/interviews/itv_123/finalize", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response["id"] != "sum_123" {
		t.Errorf("Expected summary id 'sum_123', got %v", response["id"])
	}
	if response["confidence_score"] != 4.0 {
		t.Errorf("Expected confidence_score 4, got %v", response["confidence_score"])
	}
}

func TestInterviewHandler_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		errorType  platformerrors.ErrorType
		wantStatus int
	}{
		{"not found", platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{"forbidden", platformerrors.ErrorTypeForbidden, http.StatusForbidden},
		{"conflict", platformerrors.ErrorTypeConflict, http.StatusConflict},
		{"validation", platformerrors.ErrorTypeValidation, http.StatusBadRequest},
		{"external", platformerrors.ErrorTypeExternal, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockInterviewService{
				GetFunc: func(ctx context.Context, userID, publicID string) (*interview.Interview, error) {
					return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, tt.errorType, "boom", nil)
				},
			}

			handler := handlers.NewInterviewHandler(mockService, zerolog.Nop())
			router := setupInterviewTestRouter(handler, "user-1")

			req, _ := http.NewRequest("GET", "/v1/interviews/itv_123", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestInterviewHandler_GetSummary(t *testing.T) {
	mockService := &MockInterviewService{
		GetSummaryFunc: func(ctx context.Context, userID, publicID string) (*interview.Summary, error) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound, "summary not found", nil)
		},
	}

	handler := handlers.NewInterviewHandler(mockService, zerolog.Nop())
	router := setupInterviewTestRouter(handler, "user-1")

	req, _ := http.NewRequest("GET", "/v1/interviews/itv_123/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
