package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/fraudscope/server/internal/agent/graph/nodes"
	"github.com/fraudscope/server/internal/agent/graph/tools"
	"github.com/fraudscope/server/internal/agent/model"
	logx "github.com/fraudscope/server/pkg/logger"
)

// Runner executes one full analysis for a user query.
type Runner interface {
	Analyze(ctx context.Context, userQuery string) (*model.AnalysisState, error)
}

// Config holds everything needed to compose the analysis engine end-to-end.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        model.ChatModelConfig
	Orchestrator model.OrchestratorConfig
	Deps         tools.Deps
}

// BuildAnalysisEngine constructs chat models, binds the analysis tools, and
// returns a ready Runner.
func BuildAnalysisEngine(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Deps.Classifier == nil {
		return nil, fmt.Errorf("classifier is nil")
	}
	if cfg.Deps.News == nil {
		return nil, fmt.Errorf("news fetcher is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   &cfg.Model,
	})
	if err != nil {
		return nil, err
	}

	analysisTools := tools.GetAnalysisTools(cfg.Deps)
	toolInfos, err := tools.GetToolInfos(ctx, analysisTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return nil, fmt.Errorf("failed to get tool infos: %w", err)
	}
	if err := cms.BindToolsToAnalysisModel(ctx, toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to analysis model")
		return nil, fmt.Errorf("failed to bind tools to analysis model: %w", err)
	}

	registry, err := tools.NewRegistry(ctx, analysisTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to build tool registry")
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	var callTimeout time.Duration
	if cfg.Orchestrator.CallTimeout != "" {
		callTimeout, err = time.ParseDuration(cfg.Orchestrator.CallTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid call timeout %q: %w", cfg.Orchestrator.CallTimeout, err)
		}
	}

	engine := NewEngine(cms.Analysis, cms.Verifier, registry, cms.ModelName, cfg.Orchestrator.MaxSteps, callTimeout)
	logx.Debug().Msg("Analysis engine built successfully")
	return engine, nil
}
