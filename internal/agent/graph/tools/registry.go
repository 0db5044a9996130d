package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/detection"
	"github.com/fraudscope/server/internal/news"
)

// Capability names exposed to the model.
const (
	ToolCheckEmail = "check_email"
	ToolCheckSMS   = "check_sms"
	ToolCheckURLs  = "check_urls"
	ToolFetchNews  = "fetch_news"
)

// Deps are the external collaborators the capability set delegates to.
type Deps struct {
	Classifier detection.Classifier
	News       news.Fetcher
}

// GetAnalysisTools assembles the fixed capability set for one engine.
func GetAnalysisTools(d Deps) []tool.BaseTool {
	return []tool.BaseTool{
		NewCheckEmailTool(d.Classifier),
		NewCheckSMSTool(d.Classifier),
		NewCheckURLsTool(d.Classifier),
		NewFetchNewsTool(d.News),
	}
}

// GetToolInfos collects the tool schemas for binding to the chat model.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Registry maps capability names to their invocable implementation for the
// dispatcher.
type Registry struct {
	byName map[string]tool.InvokableTool
}

func NewRegistry(ctx context.Context, ts []tool.BaseTool) (*Registry, error) {
	byName := make(map[string]tool.InvokableTool, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		inv, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		byName[info.Name] = inv
	}
	return &Registry{byName: byName}, nil
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (tool.InvokableTool, bool) {
	t, ok := r.byName[name]
	return t, ok
}
