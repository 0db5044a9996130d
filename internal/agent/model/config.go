package model

// ================ Config ================
type OrchestratorConfig struct {
	// MaxSteps is the hard ceiling on decision-node iterations per request.
	MaxSteps int `envconfig:"ORCHESTRATOR_MAX_STEPS" default:"10"`
	// CallTimeout bounds each external model/capability invocation.
	CallTimeout string `envconfig:"ORCHESTRATOR_CALL_TIMEOUT" default:"30s"`
}

type ChatModelConfig struct {
	Model       string  `envconfig:"LLM_MODEL" default:"gemini-2.0-flash"`
	MaxTokens   int     `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"LLM_TEMPERATURE" default:"0.7"`
}
