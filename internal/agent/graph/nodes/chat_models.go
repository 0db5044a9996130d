package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/fraudscope/server/internal/agent/model"
	logx "github.com/fraudscope/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   *model.ChatModelConfig
}

// ChatModels holds the tool-bound analysis model and the plain verifier
// model. Both point at the same underlying Gemini model; only the analysis
// one gets tools bound.
type ChatModels struct {
	Analysis  *gemini.ChatModel
	Verifier  *gemini.ChatModel
	ModelName string
}

// NewChatModels creates the analysis and verifier chat models with the given configuration
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("chat model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	analysis, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analysis model")
		return nil, fmt.Errorf("error creating analysis model: %w", err)
	}

	verifier, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Model.Model,
		Temperature: &config.Model.Temperature,
		MaxTokens:   &config.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating verifier model")
		return nil, fmt.Errorf("error creating verifier model: %w", err)
	}

	return &ChatModels{
		Analysis:  analysis,
		Verifier:  verifier,
		ModelName: config.Model.Model,
	}, nil
}

// BindToolsToAnalysisModel binds the analysis tools to the tool-calling model
func (cm *ChatModels) BindToolsToAnalysisModel(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Analysis.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Msg("Successfully bound tools to analysis model")
	return nil
}
