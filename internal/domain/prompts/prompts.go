// Package prompts builds the fixed model-input text for interviews and synthesis.
package prompts

import "strings"

const interviewerDirective = `You are a user research assistant helping a startup founder uncover real customer pain points. Follow these rules:

1. NEVER pitch an idea.
2. ALWAYS ask about the user's past experiences, frustrations, or real behaviors.
3. NEVER ask "Would you use this?" or similar hypotheticals.
4. Ask specific, contextual follow-up questions based on their replies.
5. Only ask one thoughtful question at a time.

Your job is to uncover deep insights about the user's experience in the domain: "{{domain}}" with respect to the persona: "{{persona}}".
Begin by asking: "Can you tell me about the last time you struggled with {{domain}}?"`

// BootstrapInstruction is the synthetic user turn that opens every interview.
const BootstrapInstruction = "Start the interview. Ask the first question."

// SynthesisDirective frames the summary request as a research-analysis task.
const SynthesisDirective = "You are a summarization engine for user research conversations."

// InterviewerDirective renders the system turn for an interview with the
// persona and domain substituted into the fixed template.
func InterviewerDirective(persona, domain string) string {
	return strings.NewReplacer(
		"{{persona}}", persona,
		"{{domain}}", domain,
	).Replace(interviewerDirective)
}

const synthesisTemplate = `You are an AI research analyst. Analyze the following conversation transcript between a user and an AI interviewer.

Extract and return the following in structured JSON:
{
  "pain_points": ["list of problems or frustrations the user mentioned"],
  "workarounds": ["temporary fixes or solutions they've tried"],
  "tools": ["any tools or platforms they referenced"],
  "emotions": ["emotions or strong phrases used (e.g. frustrated, overwhelmed)"],
  "confidence_score": 3,
  "raw_summary": "A 2-3 paragraph summary of the key insights from this interview"
}

The confidence_score is a number between 1-5 representing how clearly the user expressed a real pain point.
Ensure all arrays contain string values even if empty, and that the confidence_score is an integer between 1-5.

Transcript:
{{transcript}}`

// SynthesisPrompt renders the summary-extraction prompt for a finished transcript.
func SynthesisPrompt(transcript string) string {
	return strings.Replace(synthesisTemplate, "{{transcript}}", transcript, 1)
}
