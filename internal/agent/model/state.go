package model

import (
	"github.com/cloudwego/eino/schema"
)

// Content type labels the analysis loop can detect in a user query.
const (
	TypeEmail      = "email"
	TypeSMS        = "sms"
	TypeURL        = "url"
	TypeNews       = "news"
	TypeIrrelevant = "irrelevant"
)

// Article is a single fetched news article used for news verification.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

// AnalysisState is the mutable record threaded through one analysis run.
// Concurrency model:
//   - A fresh state is created per incoming query and owned exclusively by the
//     engine loop for the lifetime of that request; it is never aliased and
//     never shared across requests, so no locking is required.
//   - Verdict pointers are nil until the corresponding check has produced a
//     result. FinalReasoningSummary == "" means "not yet set".
//   - An empty FetchedNews map means nothing usable was fetched; every
//     news-verification trigger tests len(FetchedNews) > 0.
type AnalysisState struct {
	UserQuery     string
	DetectedTypes []string
	Messages      []*schema.Message
	ExtractedURLs []string

	IsFraudEmail *bool
	IsFraudSMS   *bool
	IsFraudURL   *bool

	FetchedNews               map[string]Article
	IsFakeNews                *bool
	NewsVerificationRequested bool

	IsIrrelevantInput     bool
	FinalReasoningSummary string

	// ExecutedCalls holds capability-call signatures already dispatched this
	// run; a repeated signature is acknowledged but never re-invoked.
	ExecutedCalls map[string]struct{}

	// Actions is the append-only audit trail of decisions and transitions.
	Actions []string

	// ToolCallIDSeq synthesizes tool_call ids when the provider omits them.
	ToolCallIDSeq int

	// TotalCostUSD accumulates LLM usage cost across model calls for this run.
	TotalCostUSD float64
}

// NewAnalysisState builds a fresh per-request state with the system prompt as
// the opening turn of the message log.
func NewAnalysisState(userQuery string, systemPrompt string) *AnalysisState {
	return &AnalysisState{
		UserQuery:     userQuery,
		Messages:      []*schema.Message{schema.SystemMessage(systemPrompt)},
		ExecutedCalls: make(map[string]struct{}),
	}
}

// Append adds a turn to the message log. Turns are never mutated after append.
func (s *AnalysisState) Append(msg *schema.Message) {
	s.Messages = append(s.Messages, msg)
}

// AddAction records one audit-trail entry.
func (s *AnalysisState) AddAction(action string) {
	s.Actions = append(s.Actions, action)
}

// WasExecuted reports whether a capability-call signature was already dispatched.
func (s *AnalysisState) WasExecuted(signature string) bool {
	_, ok := s.ExecutedCalls[signature]
	return ok
}

// MarkExecuted records a dispatched capability-call signature.
func (s *AnalysisState) MarkExecuted(signature string) {
	s.ExecutedCalls[signature] = struct{}{}
}

// HasType reports whether the given content type has been detected.
func (s *AnalysisState) HasType(t string) bool {
	for _, dt := range s.DetectedTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// LastMessage returns the final turn of the log, or nil when the log is empty.
func (s *AnalysisState) LastMessage() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// LastAssistant returns the most recent assistant turn, or nil when none exists.
func (s *AnalysisState) LastAssistant() *schema.Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if m := s.Messages[i]; m != nil && m.Role == schema.Assistant {
			return m
		}
	}
	return nil
}
