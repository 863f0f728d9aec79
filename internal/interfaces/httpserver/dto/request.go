package dto

// CreateInterviewRequest models POST /v1/interviews input.
type CreateInterviewRequest struct {
	Persona string `json:"persona" binding:"required"`
	Domain  string `json:"domain" binding:"required"`
}

// SendMessageRequest models POST /v1/interviews/:interview_id/messages input.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}
