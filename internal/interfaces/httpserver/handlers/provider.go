package handlers

import (
	"github.com/rs/zerolog"

	"insightloop/interview-api/internal/domain/interview"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Interview *InterviewHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(interviewService interview.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Interview: NewInterviewHandler(interviewService, log),
	}
}
