package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/require"

	"github.com/fraudscope/server/internal/agent/model"
)

type stubClassifier struct {
	emailFraud bool
	smsFraud   bool
	urlVerdict map[string]bool
	urlErrs    map[string]error
	err        error
}

func (s *stubClassifier) CheckEmail(_ context.Context, _ string) (bool, error) {
	return s.emailFraud, s.err
}

func (s *stubClassifier) CheckSMS(_ context.Context, _ string) (bool, error) {
	return s.smsFraud, s.err
}

func (s *stubClassifier) CheckURL(_ context.Context, url string) (bool, error) {
	if err, ok := s.urlErrs[url]; ok {
		return false, err
	}
	return s.urlVerdict[url], s.err
}

type stubFetcher struct {
	articles map[string]model.Article
	err      error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (map[string]model.Article, error) {
	return s.articles, s.err
}

func invoke(t *testing.T, bt tool.BaseTool, args string) string {
	t.Helper()
	inv, ok := bt.(tool.InvokableTool)
	require.True(t, ok)
	out, err := inv.InvokableRun(context.Background(), args)
	require.NoError(t, err)
	return out
}

func TestCheckEmailToolVerdict(t *testing.T) {
	out := invoke(t, NewCheckEmailTool(&stubClassifier{emailFraud: true}), `{"email_text":"urgent wire transfer"}`)

	var res CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Fraud)
	require.Empty(t, res.Degraded)
}

func TestCheckEmailToolRejectsEmptyInput(t *testing.T) {
	inv := NewCheckEmailTool(&stubClassifier{}).(tool.InvokableTool)
	_, err := inv.InvokableRun(context.Background(), `{"email_text":"   "}`)
	require.Error(t, err)
}

func TestCheckSMSToolDegradesOnClassifierError(t *testing.T) {
	out := invoke(t, NewCheckSMSTool(&stubClassifier{err: errors.New("service down")}), `{"sms_text":"win now"}`)

	var res CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Fraud)
	require.Contains(t, res.Degraded, "service down")
}

func TestCheckURLsMajorityVote(t *testing.T) {
	classifier := &stubClassifier{urlVerdict: map[string]bool{
		"https://a.com": false,
		"https://b.com": true,
		"https://c.com": true,
	}}
	out := invoke(t, NewCheckURLsTool(classifier), `{"urls":["https://a.com","https://b.com","https://c.com"]}`)

	var res CheckURLsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Fraud)
	require.Equal(t, 2, res.FraudCount)
	require.Equal(t, 3, res.Total)
}

func TestCheckURLsTieIsNotFraudulent(t *testing.T) {
	classifier := &stubClassifier{urlVerdict: map[string]bool{
		"https://a.com": true,
		"https://b.com": false,
	}}
	out := invoke(t, NewCheckURLsTool(classifier), `{"urls":["https://a.com","https://b.com"]}`)

	var res CheckURLsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Fraud)
	require.Equal(t, 1, res.FraudCount)
}

func TestCheckURLsFailedCheckCountsAsClean(t *testing.T) {
	classifier := &stubClassifier{
		urlVerdict: map[string]bool{"https://a.com": true},
		urlErrs:    map[string]error{"https://b.com": errors.New("timeout")},
	}
	out := invoke(t, NewCheckURLsTool(classifier), `{"urls":["https://a.com","https://b.com"]}`)

	var res CheckURLsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Fraud)
	require.Equal(t, 1, res.FraudCount)
	require.Contains(t, res.Degraded, "https://b.com")
}

func TestFetchNewsToolMapsArticles(t *testing.T) {
	fetcher := &stubFetcher{articles: map[string]model.Article{
		"article_1": {Title: "Headline", Source: "Wire"},
	}}
	out := invoke(t, NewFetchNewsTool(fetcher), `{"topic":"headline"}`)

	var res FetchNewsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Articles, 1)
	require.Equal(t, "Headline", res.Articles["article_1"].Title)
	require.Empty(t, res.Degraded)
}

func TestFetchNewsToolDegradesOnFetcherError(t *testing.T) {
	out := invoke(t, NewFetchNewsTool(&stubFetcher{err: errors.New("quota exceeded")}), `{"topic":"anything"}`)

	var res FetchNewsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Empty(t, res.Articles)
	require.Contains(t, res.Degraded, "quota exceeded")
}

func TestRegistryLookup(t *testing.T) {
	registry, err := NewRegistry(context.Background(), GetAnalysisTools(Deps{
		Classifier: &stubClassifier{},
		News:       &stubFetcher{},
	}))
	require.NoError(t, err)

	for _, name := range []string{ToolCheckEmail, ToolCheckSMS, ToolCheckURLs, ToolFetchNews} {
		_, ok := registry.Lookup(name)
		require.True(t, ok, "tool %s", name)
	}
	_, ok := registry.Lookup("unknown_tool")
	require.False(t, ok)
}
