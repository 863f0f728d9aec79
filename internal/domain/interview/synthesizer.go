package interview

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"insightloop/interview-api/internal/domain/llm"
	"insightloop/interview-api/internal/domain/prompts"
)

// DefaultConfidence is used when the model omits or mangles the confidence score.
const DefaultConfidence = 3

// Synthesizer converts a finished transcript into a structured Summary.
type Synthesizer struct {
	provider llm.Provider
	model    string
	log      zerolog.Logger
}

// NewSynthesizer wires the completion backend used for synthesis.
func NewSynthesizer(provider llm.Provider, model string, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		model:    model,
		log:      log.With().Str("component", "synthesizer").Logger(),
	}
}

// Synthesize sends the synthesis prompt and parses the structured result.
// Transport failures propagate; a malformed completion body never does,
// it degrades into a Summary that keeps the raw model output.
func (s *Synthesizer) Synthesize(ctx context.Context, itv *Interview, history []Message) (*Summary, error) {
	completion, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model: s.model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: prompts.SynthesisDirective},
			{Role: llm.RoleUser, Content: prompts.SynthesisPrompt(Transcript(history))},
		},
	})
	if err != nil {
		return nil, err
	}

	summary := s.parseCompletion(completion)
	summary.InterviewID = itv.ID
	summary.PublicID = newPublicID("sum")
	return summary, nil
}

// Transcript renders the ordered history with uppercase speaker labels.
func Transcript(history []Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, strings.ToUpper(string(msg.Sender))+": "+msg.Content)
	}
	return strings.Join(lines, "\n\n")
}

func (s *Synthesizer) parseCompletion(completion string) *Summary {
	var payload map[string]any
	if err := json.Unmarshal([]byte(completion), &payload); err != nil {
		// Keep the raw output; the conversation cannot be re-synthesized for free.
		s.log.Warn().Err(err).Msg("synthesis completion is not valid JSON, storing degraded summary")
		return &Summary{
			PainPoints:      []string{},
			Workarounds:     []string{},
			Tools:           []string{},
			Emotions:        []string{},
			ConfidenceScore: DefaultConfidence,
			RawSummary:      completion,
		}
	}

	rawSummary, _ := payload["raw_summary"].(string)
	return &Summary{
		PainPoints:      coerceStringList(payload["pain_points"]),
		Workarounds:     coerceStringList(payload["workarounds"]),
		Tools:           coerceStringList(payload["tools"]),
		Emotions:        coerceStringList(payload["emotions"]),
		ConfidenceScore: coerceConfidence(payload["confidence_score"]),
		RawSummary:      rawSummary,
	}
}

func coerceStringList(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(list))
	for _, entry := range list {
		if s, ok := entry.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func coerceConfidence(value any) int {
	score, ok := value.(float64)
	if !ok {
		return DefaultConfidence
	}
	rounded := int(score)
	if rounded < 1 || rounded > 5 {
		return DefaultConfidence
	}
	return rounded
}
