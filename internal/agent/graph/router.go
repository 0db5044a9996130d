package graph

import (
	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/model"
)

// Route is the termination router's decision for the next loop transition.
type Route int

const (
	// RouteTerminate halts the analysis loop.
	RouteTerminate Route = iota
	// RouteDispatch hands the pending tool-call batch to the dispatcher.
	RouteDispatch
	// RouteDecide re-enters the decision node.
	RouteDecide
)

// NextRoute maps the current state to the next transition. It is a pure
// function evaluated after every decision-node step: repeated calls with
// unchanged state yield the same decision.
func NextRoute(s *model.AnalysisState) Route {
	if len(s.Messages) == 0 {
		return RouteTerminate
	}

	// Irrelevant input with a summary in hand ends the run before anything
	// else; this is what guarantees no capability is ever dispatched for it.
	if s.IsIrrelevantInput && s.FinalReasoningSummary != "" {
		return RouteTerminate
	}

	// Fetched-but-unverified news forces the verification sub-flow.
	if newsVerificationPending(s) {
		return RouteDecide
	}

	lastAssistant := s.LastAssistant()
	if lastAssistant == nil {
		return RouteTerminate
	}

	// A trailing assistant turn with tool calls means those calls are still
	// unexecuted; anything appended after it would be their results.
	if len(lastAssistant.ToolCalls) > 0 && s.LastMessage() == lastAssistant {
		return RouteDispatch
	}

	if s.FinalReasoningSummary != "" {
		return RouteTerminate
	}

	// Safety net: news detected, articles fetched, verdict still missing.
	if s.HasType(model.TypeNews) && s.IsFakeNews == nil && len(s.FetchedNews) > 0 {
		return RouteDecide
	}

	// Fresh tool results with every detected type checked: one more decision
	// step to obtain the closing summary.
	if last := s.LastMessage(); last != nil && last.Role == schema.Tool && allRelevantChecked(s) {
		return RouteDecide
	}

	return RouteTerminate
}

func newsVerificationPending(s *model.AnalysisState) bool {
	return len(s.FetchedNews) > 0 && s.IsFakeNews == nil && !s.NewsVerificationRequested
}

// allRelevantChecked reports whether every detected content type has a
// verdict. No detected types means the run still needs processing; an
// irrelevant-only detection needs no checks at all.
func allRelevantChecked(s *model.AnalysisState) bool {
	if len(s.DetectedTypes) == 0 {
		return false
	}
	if s.HasType(model.TypeIrrelevant) {
		return true
	}

	checked := 0
	for _, t := range s.DetectedTypes {
		switch t {
		case model.TypeURL:
			if s.IsFraudURL == nil {
				return false
			}
			checked++
		case model.TypeEmail:
			if s.IsFraudEmail == nil {
				return false
			}
			checked++
		case model.TypeSMS:
			if s.IsFraudSMS == nil {
				return false
			}
			checked++
		case model.TypeNews:
			if s.IsFakeNews == nil {
				return false
			}
			checked++
		}
	}
	return checked > 0
}
