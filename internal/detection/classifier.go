package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Config struct {
	BaseURL        string `envconfig:"DETECTION_BASE_URL" required:"true"`
	TimeoutSeconds int    `envconfig:"DETECTION_TIMEOUT_SECONDS" default:"10"`
	CacheTTL       string `envconfig:"DETECTION_CACHE_TTL" default:"1h"`
}

// Classifier is the fraud-classification collaborator. The XGBoost/embedding
// models live behind a scoring service; each check is a black-box boolean
// verdict (true = fraudulent).
type Classifier interface {
	CheckEmail(ctx context.Context, text string) (bool, error)
	CheckSMS(ctx context.Context, text string) (bool, error)
	CheckURL(ctx context.Context, url string) (bool, error)
}

// classifyRequest is the request shape of the scoring service endpoints.
type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse is the response shape of the scoring service endpoints.
type classifyResponse struct {
	Fraud bool `json:"fraud"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("detection: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// HTTPClient talks to the fraud scoring service over HTTP. It is immutable
// after construction and safe for concurrent use.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (c *HTTPClient) CheckEmail(ctx context.Context, text string) (bool, error) {
	return c.classify(ctx, "email", text)
}

func (c *HTTPClient) CheckSMS(ctx context.Context, text string) (bool, error) {
	return c.classify(ctx, "sms", text)
}

func (c *HTTPClient) CheckURL(ctx context.Context, url string) (bool, error) {
	return c.classify(ctx, "url", url)
}

func (c *HTTPClient) classify(ctx context.Context, kind, text string) (bool, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return false, fmt.Errorf("marshal classify request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/classify/%s", c.baseURL, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("classify %s: %w", kind, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, fmt.Errorf("read classify response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			URL:        endpoint,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	var out classifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return false, fmt.Errorf("decode classify response: %w", err)
	}
	return out.Fraud, nil
}

var _ Classifier = (*HTTPClient)(nil)
