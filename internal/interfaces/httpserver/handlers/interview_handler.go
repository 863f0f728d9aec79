package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"insightloop/interview-api/internal/domain/interview"
	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/infrastructure/auth"
	"insightloop/interview-api/internal/infrastructure/metrics"
	"insightloop/interview-api/internal/interfaces/httpserver/dto"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// InterviewHandler exposes HTTP entrypoints for the interview API.
type InterviewHandler struct {
	service interview.Service
	log     zerolog.Logger
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(service interview.Service, log zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		log:     log.With().Str("handler", "interview").Logger(),
	}
}

// Create handles POST /v1/interviews
// @Summary Create an interview
// @Tags Interviews
// @Accept json
// @Produce json
// @Param request body dto.CreateInterviewRequest true "Create request"
// @Success 200 {object} dto.InterviewPayload
// @Router /v1/interviews [post]
func (h *InterviewHandler) Create(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	itv, err := h.service.Create(c.Request.Context(), interview.CreateParams{
		UserID:  userID,
		Persona: req.Persona,
		Domain:  req.Domain,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInterview(itv))
}

// List handles GET /v1/interviews
// @Summary List the caller's interviews
// @Tags Interviews
// @Produce json
// @Success 200 {object} dto.InterviewListPayload
// @Router /v1/interviews [get]
func (h *InterviewHandler) List(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	interviews, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInterviews(interviews))
}

// Get handles GET /v1/interviews/:interview_id
// @Summary Get an interview by ID
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.InterviewPayload
// @Router /v1/interviews/{interview_id} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	itv, err := h.service.Get(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInterview(itv))
}

// Bootstrap handles POST /v1/interviews/:interview_id/bootstrap
// @Summary Generate the opening question for an interview with no turns
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.MessageListPayload
// @Router /v1/interviews/{interview_id}/bootstrap [post]
func (h *InterviewHandler) Bootstrap(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	history, err := h.service.Bootstrap(h.requestContext(c), userID, c.Param("interview_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMessages(history))
}

// ListMessages handles GET /v1/interviews/:interview_id/messages
// @Summary List the ordered transcript
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.MessageListPayload
// @Router /v1/interviews/{interview_id}/messages [get]
func (h *InterviewHandler) ListMessages(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	history, err := h.service.ListMessages(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMessages(history))
}

// SendMessage handles POST /v1/interviews/:interview_id/messages
// @Summary Exchange one turn with the interviewer
// @Tags Interviews
// @Accept json
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Param request body dto.SendMessageRequest true "Message"
// @Success 200 {object} dto.MessageListPayload
// @Router /v1/interviews/{interview_id}/messages [post]
func (h *InterviewHandler) SendMessage(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.service.Exchange(h.requestContext(c), userID, c.Param("interview_id"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromMessages(history))
}

// Finalize handles POST /v1/interviews/:interview_id/finalize
// @Summary Synthesize the transcript into a summary
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.SummaryPayload
// @Router /v1/interviews/{interview_id}/finalize [post]
func (h *InterviewHandler) Finalize(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	summary, err := h.service.Finalize(h.requestContext(c), userID, c.Param("interview_id"))
	if err != nil {
		metrics.RecordSummary("failed")
		h.respondError(c, err)
		return
	}

	metrics.RecordSummary("completed")
	c.JSON(http.StatusOK, dto.FromSummary(summary))
}

// GetSummary handles GET /v1/interviews/:interview_id/summary
// @Summary Get the finalized summary
// @Tags Interviews
// @Produce json
// @Param interview_id path string true "Interview ID"
// @Success 200 {object} dto.SummaryPayload
// @Router /v1/interviews/{interview_id}/summary [get]
func (h *InterviewHandler) GetSummary(c *gin.Context) {
	userID, ok := h.identity(c)
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), userID, c.Param("interview_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSummary(summary))
}

func (h *InterviewHandler) identity(c *gin.Context) (string, bool) {
	userID := auth.Identity(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}

// requestContext forwards the caller's Authorization header so completion
// calls can run under the caller's credential when the backend requires it.
func (h *InterviewHandler) requestContext(c *gin.Context) context.Context {
	return llm.ContextWithAuthToken(c.Request.Context(), strings.TrimSpace(c.GetHeader("Authorization")))
}

func (h *InterviewHandler) respondError(c *gin.Context, err error) {
	errorType := platformerrors.TypeOf(err)
	platformerrors.LogError(h.log, platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, "request failed"))
	c.JSON(platformerrors.ErrorTypeToHTTPStatus(errorType), gin.H{"error": err.Error()})
}
