package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/graph/prompts"
	"github.com/fraudscope/server/internal/agent/graph/tools"
	"github.com/fraudscope/server/internal/agent/model"
	errx "github.com/fraudscope/server/internal/core/error"
	logx "github.com/fraudscope/server/pkg/logger"
)

const (
	// DefaultMaxSteps bounds how many decide/dispatch rounds a single
	// analysis may take before it is cut off.
	DefaultMaxSteps = 10

	// DefaultCallTimeout bounds each individual model or tool invocation.
	DefaultCallTimeout = 30 * time.Second
)

// Engine drives a single-request fraud analysis as an explicit state
// machine: decide, route, dispatch, repeat. All state lives in the
// per-request AnalysisState; the engine itself is safe for concurrent use.
type Engine struct {
	analysis    model.ChatModel
	verifier    model.ChatModel
	registry    *tools.Registry
	modelName   string
	maxSteps    int
	callTimeout time.Duration
}

// NewEngine wires an engine from its collaborators. Non-positive limits
// fall back to the defaults.
func NewEngine(analysis, verifier model.ChatModel, registry *tools.Registry, modelName string, maxSteps int, callTimeout time.Duration) *Engine {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &Engine{
		analysis:    analysis,
		verifier:    verifier,
		registry:    registry,
		modelName:   modelName,
		maxSteps:    maxSteps,
		callTimeout: callTimeout,
	}
}

// Analyze runs the full analysis loop for one user query and returns the
// terminal state. The state is returned even on context cancellation so the
// caller can still inspect the audit trail.
func (e *Engine) Analyze(ctx context.Context, userQuery string) (*model.AnalysisState, error) {
	s := model.NewAnalysisState(userQuery, prompts.System())

	for step := 0; step < e.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			s.AddAction("Analysis cancelled before completion")
			return s, errx.New(err, 499, "analysis cancelled")
		}

		e.decide(ctx, s)

		switch NextRoute(s) {
		case RouteTerminate:
			logx.Debug().
				Int("steps", step+1).
				Float64("cost_usd", s.TotalCostUSD).
				Msg("analysis complete")
			return s, nil
		case RouteDispatch:
			e.dispatch(ctx, s)
		case RouteDecide:
			// loop back into another decision round
		}
	}

	if s.FinalReasoningSummary == "" {
		s.FinalReasoningSummary = "Analysis stopped before completion: step limit reached."
	}
	s.AddAction(fmt.Sprintf("Stopped analysis after reaching the step ceiling (%d)", e.maxSteps))
	logx.Warn().
		Int("max_steps", e.maxSteps).
		Str("user_query", userQuery).
		Msg("analysis hit step ceiling")
	return s, nil
}

// recordUsage accumulates per-call token cost onto the state.
func (e *Engine) recordUsage(s *model.AnalysisState, reply *schema.Message) {
	if !model.CostEnabled() || reply == nil || reply.ResponseMeta == nil || reply.ResponseMeta.Usage == nil {
		return
	}
	usage := reply.ResponseMeta.Usage
	inputCost, outputCost, total := model.ComputeCost(usage, model.ResolvePricing(e.modelName))
	s.TotalCostUSD += total
	logx.Debug().
		Str("model", e.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Float64("input_cost_usd", inputCost).
		Float64("output_cost_usd", outputCost).
		Float64("total_cost_usd", total).
		Msg("LLM usage")
}
