package llmprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/infrastructure/metrics"
	"insightloop/interview-api/internal/infrastructure/observability"
	"insightloop/interview-api/internal/utils/platformerrors"
)

// Client implements the llm.Provider interface against an
// OpenAI-compatible /v1/chat/completions endpoint.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{httpClient: httpClient}
}

// Complete posts the chat request and returns the top completion text.
// No retries happen here; a failed call surfaces to the caller.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	ctx, span := observability.StartCompletionSpan(ctx, req.Model, len(req.Messages))
	defer span.End()

	started := time.Now()

	var completion llm.CompletionResponse
	request := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion)

	if token := llm.AuthTokenFromContext(ctx); token != "" {
		request.SetHeader("Authorization", token)
	}

	resp, err := request.Post("/v1/chat/completions")
	if err != nil {
		observability.RecordError(span, err)
		metrics.RecordCompletion(req.Model, "unreachable", time.Since(started).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "completion backend unreachable", err)
	}

	if resp.IsError() {
		statusErr := fmt.Errorf("completion backend returned %s", resp.Status())
		observability.RecordError(span, statusErr)
		metrics.RecordCompletion(req.Model, "error", time.Since(started).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "completion backend returned "+resp.Status(), statusErr)
	}

	if len(completion.Choices) == 0 {
		metrics.RecordCompletion(req.Model, "malformed", time.Since(started).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeMalformedUpstream, "completion response has no choices", nil)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		metrics.RecordCompletion(req.Model, "malformed", time.Since(started).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeMalformedUpstream, "completion response has empty content", nil)
	}

	metrics.RecordCompletion(req.Model, "ok", time.Since(started).Seconds())
	return content, nil
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)
