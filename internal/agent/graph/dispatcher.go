package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/graph/tools"
	"github.com/fraudscope/server/internal/agent/model"
	logx "github.com/fraudscope/server/pkg/logger"
)

// dispatch executes the tool-call batch of the latest assistant turn, in the
// order requested. Signatures already executed this run are acknowledged with
// an informational tool-result turn and skipped without re-invocation.
func (e *Engine) dispatch(ctx context.Context, s *model.AnalysisState) {
	last := s.LastMessage()
	if last == nil || last.Role != schema.Assistant || len(last.ToolCalls) == 0 {
		return
	}

	for _, tc := range last.ToolCalls {
		name := tc.Function.Name
		args := tc.Function.Arguments
		sig := callSignature(name, args)

		if s.WasExecuted(sig) {
			logx.Debug().Str("tool", name).Msg("duplicate tool call skipped")
			s.Append(toolTurn(tc.ID, "Note: This exact tool call has already been executed. Using previous results."))
			continue
		}

		impl, ok := e.registry.Lookup(name)
		if !ok {
			msg := fmt.Sprintf("Error: Unknown tool '%s'", name)
			logx.Warn().Str("tool", name).Msg("unknown tool requested by model")
			s.Append(toolTurn(tc.ID, msg))
			s.AddAction(msg)
			continue
		}

		cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		out, err := impl.InvokableRun(cctx, args)
		cancel()
		if err != nil {
			logx.Warn().Err(err).Str("tool", name).Msg("tool invocation failed")
			s.Append(toolTurn(tc.ID, fmt.Sprintf("Tool error: %v", err)))
			s.AddAction(fmt.Sprintf("Error executing %s: %v", name, err))
			continue
		}

		s.Append(toolTurn(tc.ID, out))
		e.applyToolResult(s, name, out)
		s.MarkExecuted(sig)
	}
}

// applyToolResult maps a capability's rendered output back onto the state.
func (e *Engine) applyToolResult(s *model.AnalysisState, name, out string) {
	switch name {
	case tools.ToolCheckEmail:
		var res tools.CheckResult
		if !parseToolResult(s, name, out, &res) {
			return
		}
		recordDegraded(s, name, res.Degraded)
		v := res.Fraud
		s.IsFraudEmail = &v
		s.AddAction(fmt.Sprintf("Executed %s: result=%t", name, res.Fraud))

	case tools.ToolCheckSMS:
		var res tools.CheckResult
		if !parseToolResult(s, name, out, &res) {
			return
		}
		recordDegraded(s, name, res.Degraded)
		v := res.Fraud
		s.IsFraudSMS = &v
		s.AddAction(fmt.Sprintf("Executed %s: result=%t", name, res.Fraud))

	case tools.ToolCheckURLs:
		var res tools.CheckURLsResult
		if !parseToolResult(s, name, out, &res) {
			return
		}
		recordDegraded(s, name, res.Degraded)
		v := res.Fraud
		s.IsFraudURL = &v
		s.AddAction(fmt.Sprintf("Executed %s: result=%t (%d/%d fraudulent)", name, res.Fraud, res.FraudCount, res.Total))

	case tools.ToolFetchNews:
		var res tools.FetchNewsResult
		if !parseToolResult(s, name, out, &res) {
			return
		}
		recordDegraded(s, name, res.Degraded)
		s.FetchedNews = res.Articles
		// Re-arm the verification sub-flow for the fresh fetch.
		s.IsFakeNews = nil
		s.NewsVerificationRequested = false
		s.AddAction(fmt.Sprintf("Executed %s: %d articles fetched", name, len(res.Articles)))
	}
}

func parseToolResult(s *model.AnalysisState, name, out string, into any) bool {
	if err := json.Unmarshal([]byte(out), into); err != nil {
		logx.Warn().Err(err).Str("tool", name).Msg("could not parse tool result")
		s.AddAction(fmt.Sprintf("Could not parse %s result", name))
		return false
	}
	return true
}

func recordDegraded(s *model.AnalysisState, name, degraded string) {
	if degraded != "" {
		s.AddAction(fmt.Sprintf("Capability %s degraded: %s", name, degraded))
	}
}

// callSignature is the deduplication key: tool name plus a canonical
// serialization of its arguments (JSON object keys sorted).
func callSignature(name, args string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(args), &m); err == nil {
		if b, err := json.Marshal(m); err == nil {
			return name + ":" + string(b)
		}
	}
	return name + ":" + strings.TrimSpace(args)
}

func toolTurn(callID, content string) *schema.Message {
	return &schema.Message{
		Role:       schema.Tool,
		Content:    content,
		ToolCallID: callID,
	}
}
