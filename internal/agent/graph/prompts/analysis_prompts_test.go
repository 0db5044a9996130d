package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraudscope/server/internal/agent/model"
)

func TestSystemPromptNamesEveryTool(t *testing.T) {
	sys := System()
	for _, name := range []string{"check_email", "check_sms", "check_urls", "fetch_news"} {
		require.Contains(t, sys, name)
	}
}

func TestRenderBootstrapInstructionWithURLs(t *testing.T) {
	got, err := RenderBootstrapInstruction(context.Background(), []string{"https://a.com", "https://b.com/x?y=1"})
	require.NoError(t, err)
	require.Contains(t, got, "https://a.com, https://b.com/x?y=1")
	require.NotContains(t, got, "{{")
}

func TestRenderBootstrapInstructionWithoutURLs(t *testing.T) {
	got, err := RenderBootstrapInstruction(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, got, "None")
}

func TestRenderNewsVerificationOrdersArticles(t *testing.T) {
	articles := map[string]model.Article{
		"article_10": {Title: "tenth", Description: "d10", Source: "s10"},
		"article_2":  {Title: "second", Description: "d2", Source: "s2"},
		"article_1":  {Title: "first", Description: "d1", Source: "s1"},
	}
	got, err := RenderNewsVerification(context.Background(), "is this real?", articles)
	require.NoError(t, err)

	require.Contains(t, got, `"is this real?"`)
	first := strings.Index(got, "first")
	second := strings.Index(got, "second")
	tenth := strings.Index(got, "tenth")
	require.True(t, first >= 0 && second >= 0 && tenth >= 0)
	require.Less(t, first, second)
	require.Less(t, second, tenth)
}

func TestRenderNewsVerificationIsDeterministic(t *testing.T) {
	articles := map[string]model.Article{
		"article_1": {Title: "a"},
		"article_2": {Title: "b"},
		"article_3": {Title: "c"},
	}
	base, err := RenderNewsVerification(context.Background(), "claim", articles)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := RenderNewsVerification(context.Background(), "claim", articles)
		require.NoError(t, err)
		require.Equal(t, base, again)
	}
}
