package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fraudscope/server/internal/agent/model"
)

type Config struct {
	APIKey         string `envconfig:"GNEWS_API_KEY" required:"true"`
	BaseURL        string `envconfig:"GNEWS_BASE_URL" default:"https://gnews.io/api/v4"`
	Lang           string `envconfig:"GNEWS_LANG" default:"en"`
	MaxResults     int    `envconfig:"GNEWS_MAX_RESULTS" default:"5"`
	TimeoutSeconds int    `envconfig:"GNEWS_TIMEOUT_SECONDS" default:"10"`
}

// Fetcher is the news-retrieval collaborator: recent articles on a topic,
// keyed article_1..article_N in retrieval order.
type Fetcher interface {
	Fetch(ctx context.Context, topic string) (map[string]model.Article, error)
}

// searchResponse is the subset of the GNews search payload we consume.
type searchResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// GNewsClient fetches headlines from the GNews search API.
type GNewsClient struct {
	apiKey     string
	baseURL    string
	lang       string
	maxResults int
	client     *http.Client
}

func NewGNewsClient(cfg Config) *GNewsClient {
	return &GNewsClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		lang:       cfg.Lang,
		maxResults: cfg.MaxResults,
		client:     &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (g *GNewsClient) Fetch(ctx context.Context, topic string) (map[string]model.Article, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("token", g.apiKey)
	params.Set("lang", g.lang)
	params.Set("max", strconv.Itoa(g.maxResults))

	endpoint := g.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read news response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("news search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out searchResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	articles := make(map[string]model.Article, len(out.Articles))
	for i, a := range out.Articles {
		articles[fmt.Sprintf("article_%d", i+1)] = model.Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		}
	}
	return articles, nil
}

var _ Fetcher = (*GNewsClient)(nil)
