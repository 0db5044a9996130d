package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/fraudscope/server/internal/agent/graph"
	"github.com/fraudscope/server/internal/agent/graph/tools"
	"github.com/fraudscope/server/internal/agent/model"
	"github.com/fraudscope/server/internal/core"
	"github.com/fraudscope/server/internal/detection"
	"github.com/fraudscope/server/internal/news"
	"github.com/fraudscope/server/internal/server"
	logx "github.com/fraudscope/server/pkg/logger"
	pkgredis "github.com/fraudscope/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Server      server.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Model        model.ChatModelConfig
	Orchestrator model.OrchestratorConfig

	// Capabilities
	Detection detection.Config
	News      news.Config

	// Infrastructure (optional verdict cache)
	Redis pkgredis.Config
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	var classifier detection.Classifier = detection.NewHTTPClient(envCfg.Detection)
	if envCfg.Redis.URL != "" {
		rdb, err := envCfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()

		ttl, err := time.ParseDuration(envCfg.Detection.CacheTTL)
		if err != nil {
			log.Fatalf("Invalid DETECTION_CACHE_TTL '%s': %v", envCfg.Detection.CacheTTL, err)
		}
		classifier = detection.NewCachedClassifier(classifier, rdb, ttl)
		logx.Info().Msg("Verdict cache enabled")
	}

	runner, err := graph.BuildAnalysisEngine(ctx, graph.Config{
		APIKey:       envCfg.APIKey,
		BaseURL:      envCfg.BaseURL,
		Model:        envCfg.Model,
		Orchestrator: envCfg.Orchestrator,
		Deps: tools.Deps{
			Classifier: classifier,
			News:       news.NewGNewsClient(envCfg.News),
		},
	})
	if err != nil {
		log.Fatalf("Failed to build analysis engine: %v", err)
	}

	srv := server.New(envCfg.Server, runner)
	if err := server.ListenAndServe(srv); err != nil {
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
