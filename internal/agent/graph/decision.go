package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/graph/parsers"
	"github.com/fraudscope/server/internal/agent/graph/prompts"
	"github.com/fraudscope/server/internal/agent/model"
	logx "github.com/fraudscope/server/pkg/logger"
)

// fallbackIrrelevantSummary is used when an irrelevance refusal carries no
// conclusion paragraph of its own.
const fallbackIrrelevantSummary = "I am a fraud detection assistant. I can only help with analyzing potential fraud in digital communications (emails, SMS, URLs, or news)."

// decide runs one decision-node step. Branches are evaluated in strict
// priority order: bootstrap, news verification, post-tool context, then the
// normal tool-bound model turn. The news-verification branch returns without
// a normal model turn.
func (e *Engine) decide(ctx context.Context, s *model.AnalysisState) {
	switch {
	case len(s.Messages) == 1:
		e.bootstrap(ctx, s)
	case newsVerificationPending(s):
		e.verifyNews(ctx, s)
		return
	case recentToolResult(s):
		s.Append(schema.SystemMessage(prompts.PostToolInstruction()))
	}

	e.modelTurn(ctx, s)
}

// bootstrap appends the user query, extracts URLs from it, and instructs the
// model before the first real turn.
func (e *Engine) bootstrap(ctx context.Context, s *model.AnalysisState) {
	s.Append(schema.UserMessage(s.UserQuery))

	if urls := parsers.ExtractURLs(s.UserQuery); len(urls) > 0 {
		s.ExtractedURLs = urls
		s.AddAction(fmt.Sprintf("Extracted %d URLs from user query", len(urls)))
	}

	instruction, err := prompts.RenderBootstrapInstruction(ctx, s.ExtractedURLs)
	if err != nil {
		logx.Error().Err(err).Msg("failed to render bootstrap instruction")
		return
	}
	s.Append(schema.SystemMessage(instruction))
}

// verifyNews runs the news-verification sub-flow: latch the request, prompt
// the plain model over the fetched articles, classify the reply, and capture
// the final summary. Ambiguity resolves to fake.
func (e *Engine) verifyNews(ctx context.Context, s *model.AnalysisState) {
	s.NewsVerificationRequested = true
	s.AddAction("Requesting news verification")

	prompt, err := prompts.RenderNewsVerification(ctx, s.UserQuery, s.FetchedNews)
	if err != nil {
		e.failNewsVerification(s, err)
		return
	}
	s.Append(schema.SystemMessage(prompt))

	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	reply, err := e.verifier.Generate(cctx, s.Messages)
	cancel()
	if err != nil {
		e.failNewsVerification(s, err)
		return
	}
	e.recordUsage(s, reply)
	s.Append(reply)

	conclusion, _ := parsers.ExtractFinalConclusion(reply.Content)
	s.FinalReasoningSummary = conclusion
	s.AddAction("Extracted final reasoning summary from news verification")

	fake, conclusive := parsers.ClassifyNewsVerdict(reply.Content)
	s.IsFakeNews = &fake
	switch {
	case conclusive && fake:
		s.AddAction("Determined news is likely fake based on article analysis")
	case conclusive && !fake:
		s.AddAction("Determined news is likely legitimate based on article analysis")
	default:
		s.AddAction("News verification inconclusive - treating as potentially fake")
	}
}

func (e *Engine) failNewsVerification(s *model.AnalysisState, err error) {
	logx.Error().Err(err).Msg("news verification failed")
	s.Append(schema.AssistantMessage("I encountered an error while verifying the news. Treating it as potentially suspicious.", nil))
	fake := true
	s.IsFakeNews = &fake
	s.AddAction(fmt.Sprintf("Error during news verification: %v", err))
	s.FinalReasoningSummary = "Error during news verification. Treating as potentially suspicious."
}

// modelTurn invokes the tool-bound model over the full message log and folds
// its reply back into the state: content types on the first substantive
// reply, then conclusion capture and prose-derived verdicts when the reply
// carries no tool calls.
func (e *Engine) modelTurn(ctx context.Context, s *model.AnalysisState) {
	cctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	reply, err := e.analysis.Generate(cctx, s.Messages)
	cancel()
	if err != nil {
		logx.Error().Err(err).Msg("model invocation failed")
		s.Append(schema.AssistantMessage("I encountered an error while analyzing your query. Please try again.", nil))
		s.FinalReasoningSummary = "Error during analysis. Please try again."
		s.AddAction(fmt.Sprintf("Error during model invocation: %v", err))
		return
	}
	e.recordUsage(s, reply)
	normalizeToolCallIDs(s, reply)
	s.Append(reply)

	if len(s.DetectedTypes) == 0 {
		e.classifyReply(s, reply.Content)
	}

	if len(reply.ToolCalls) == 0 && s.FinalReasoningSummary == "" {
		if conclusion, ok := parsers.ExtractFinalConclusion(reply.Content); ok {
			s.FinalReasoningSummary = conclusion
			s.AddAction("Extracted final reasoning summary from conclusion section")
			e.inferVerdictsFromSummary(s, conclusion)
		}
	}
}

// classifyReply derives content types, or the irrelevance verdict, from the
// first substantive assistant reply.
func (e *Engine) classifyReply(s *model.AnalysisState, content string) {
	if parsers.DetectIrrelevance(content) {
		s.IsIrrelevantInput = true
		s.DetectedTypes = []string{model.TypeIrrelevant}
		s.AddAction("Detected irrelevant input not related to fraud detection")

		if conclusion, ok := parsers.ExtractFinalConclusion(content); ok {
			s.FinalReasoningSummary = conclusion
		} else {
			s.FinalReasoningSummary = fallbackIrrelevantSummary
		}
		s.AddAction("Set final reasoning summary for irrelevant input")
		return
	}

	if detected := parsers.DetectContentTypes(content); len(detected) > 0 {
		s.DetectedTypes = detected
		s.AddAction("Detected input types: " + strings.Join(detected, ", "))
		if s.HasType(model.TypeNews) && s.IsFakeNews == nil {
			s.AddAction("Marked news for verification")
		}
	}
}

// inferVerdictsFromSummary fills still-missing verdicts for detected types
// from the conclusion prose. A verdict recorded here has no backing tool
// execution in the audit trail; the action entries make that visible.
func (e *Engine) inferVerdictsFromSummary(s *model.AnalysisState, summary string) {
	if s.HasType(model.TypeURL) && s.IsFraudURL == nil {
		if v := parsers.InferVerdict(summary, parsers.URLFraudKeywords, parsers.URLSafeKeywords); v != nil {
			s.IsFraudURL = v
			s.AddAction(fmt.Sprintf("Updated is_fraud_url to %t based on conclusion", *v))
		}
	}
	if s.HasType(model.TypeSMS) && s.IsFraudSMS == nil {
		if v := parsers.InferVerdict(summary, parsers.SMSFraudKeywords, parsers.SMSSafeKeywords); v != nil {
			s.IsFraudSMS = v
			s.AddAction(fmt.Sprintf("Updated is_fraud_sms to %t based on conclusion", *v))
		}
	}
	if s.HasType(model.TypeEmail) && s.IsFraudEmail == nil {
		if v := parsers.InferVerdict(summary, parsers.EmailFraudKeywords, parsers.EmailSafeKeywords); v != nil {
			s.IsFraudEmail = v
			s.AddAction(fmt.Sprintf("Updated is_fraud_email to %t based on conclusion", *v))
		}
	}
}

// recentToolResult reports whether one of the last three turns is a tool result.
func recentToolResult(s *model.AnalysisState) bool {
	start := len(s.Messages) - 3
	if start < 0 {
		start = 0
	}
	for _, m := range s.Messages[start:] {
		if m != nil && m.Role == schema.Tool {
			return true
		}
	}
	return false
}

// normalizeToolCallIDs synthesizes tool_call ids when the provider omits
// them (Gemini sometimes does), so tool-result turns stay linkable.
func normalizeToolCallIDs(s *model.AnalysisState, reply *schema.Message) {
	for i := range reply.ToolCalls {
		if strings.TrimSpace(reply.ToolCalls[i].ID) == "" {
			s.ToolCallIDSeq++
			reply.ToolCalls[i].ID = fmt.Sprintf("call_%d", s.ToolCallIDSeq)
		}
	}
}
