package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/model"
	"github.com/fraudscope/server/internal/news"
	logx "github.com/fraudscope/server/pkg/logger"
)

// ===================================
// Fetch News Tool
// ===================================

type FetchNewsInput struct {
	Topic string `json:"topic"`
}

// FetchNewsResult carries the fetched articles keyed article_1..article_N.
// Degraded is set when retrieval failed and the article map is empty.
type FetchNewsResult struct {
	Articles map[string]model.Article `json:"articles"`
	Degraded string                   `json:"degraded,omitempty"`
}

func NewFetchNewsTool(fetcher news.Fetcher) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolFetchNews,
			Desc: "Retrieve recent news articles on a topic to verify whether a news claim is legitimate. Returns article titles, descriptions and sources. Use this tool whenever the user input contains a news claim.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"topic": {
					Type:     "string",
					Desc:     "Search keywords describing the news claim to verify.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *FetchNewsInput) (*FetchNewsResult, error) {
			if strings.TrimSpace(in.Topic) == "" {
				return nil, fmt.Errorf("topic is required")
			}

			articles, err := fetcher.Fetch(ctx, in.Topic)
			if err != nil {
				logx.Warn().Err(err).Str("tool", ToolFetchNews).Msg("news fetch failed; degrading to empty result")
				return &FetchNewsResult{Articles: map[string]model.Article{}, Degraded: err.Error()}, nil
			}
			return &FetchNewsResult{Articles: articles}, nil
		},
	)
}
