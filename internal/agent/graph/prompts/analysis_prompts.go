package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fraudscope/server/internal/agent/model"
)

//go:embed template/system_prompt.txt
var systemPrompt string

//go:embed template/bootstrap_instruction.txt
var bootstrapInstruction string

//go:embed template/news_verification.txt
var newsVerification string

// postToolInstruction nudges the model to fold tool results into a conclusion.
const postToolInstruction = `Based on the tool results you've received:
1. Update your assessment of potential fraud
2. Decide if you need more information from other tools
3. If you've gathered enough information, provide a final assessment to the user
4. End your response with a clear FINAL CONCLUSION paragraph summarizing your findings.`

// System returns the static fraud-analysis system prompt.
func System() string {
	return systemPrompt
}

// PostToolInstruction returns the instruction appended after tool results.
func PostToolInstruction() string {
	return postToolInstruction
}

// RenderBootstrapInstruction renders the first-turn instruction listing the
// URLs extracted from the user query. Rendering goes through the Eino prompt
// component so prompt callbacks fire for observability tooling.
func RenderBootstrapInstruction(ctx context.Context, extractedURLs []string) (string, error) {
	urls := "None"
	if len(extractedURLs) > 0 {
		urls = strings.Join(extractedURLs, ", ")
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(bootstrapInstruction),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"ExtractedURLs": urls,
	})
	if err != nil {
		return "", fmt.Errorf("bootstrap prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("bootstrap prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderNewsVerification renders the verification prompt embedding the user
// query and a deterministic rendering of every fetched article.
func RenderNewsVerification(ctx context.Context, userQuery string, articles map[string]model.Article) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(newsVerification),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"UserQuery":   userQuery,
		"NewsContext": formatNewsContext(articles),
	})
	if err != nil {
		return "", fmt.Errorf("news verification prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("news verification prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// formatNewsContext renders fetched articles in stable key order so repeated
// runs over the same fetch produce identical prompts.
func formatNewsContext(articles map[string]model.Article) string {
	keys := make([]string, 0, len(articles))
	for k := range articles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iok := articleIndex(keys[i])
		nj, jok := articleIndex(keys[j])
		if iok && jok {
			return ni < nj
		}
		return keys[i] < keys[j]
	})

	var b strings.Builder
	for i, k := range keys {
		a := articles[k]
		fmt.Fprintf(&b, "Article %d: %s\n", i+1, a.Title)
		if a.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", a.Description)
		}
		if a.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", a.Source)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// articleIndex parses the numeric suffix of "article_N" keys.
func articleIndex(key string) (int, bool) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
