package studyctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrAPI marks a non-2xx reply from the service.
var ErrAPI = errors.New("api request failed")

// APIError carries the service's error body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Level   string `json:"level"`

	// Evaluation is set when an evaluation succeeded but its score was not saved.
	Evaluation string `json:"evaluation,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap lets callers test for ErrAPI.
func (e *APIError) Unwrap() error { return ErrAPI }

// Client talks to the service API. A cookie jar keeps one session across
// calls so a generated quiz can be evaluated afterwards.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// Plan requests a study plan.
func (c *Client) Plan(ctx context.Context, topic, duration string) (PlanResponse, error) {
	var out PlanResponse
	err := c.do(ctx, http.MethodPost, "/api/plan", map[string]string{"topic": topic, "duration": duration}, &out)
	return out, err
}

// Quiz requests a quiz and makes it the session's active quiz.
func (c *Client) Quiz(ctx context.Context, topic string) (QuizResponse, error) {
	var out QuizResponse
	err := c.do(ctx, http.MethodPost, "/api/quiz", map[string]string{"topic": topic}, &out)
	return out, err
}

// Evaluate grades answers against the active quiz.
func (c *Client) Evaluate(ctx context.Context, answers string) (EvaluateResponse, error) {
	var out EvaluateResponse
	err := c.do(ctx, http.MethodPost, "/api/evaluate", map[string]string{"answers": answers}, &out)
	return out, err
}

// History lists records, optionally filtered by topic.
func (c *Client) History(ctx context.Context, filter string) (HistoryResponse, error) {
	path := "/api/history"
	if filter != "" {
		path += "?topic=" + url.QueryEscape(filter)
	}
	var out HistoryResponse
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Analyze requests the weak-topic analysis.
func (c *Client) Analyze(ctx context.Context) (AnalyzeResponse, error) {
	var out AnalyzeResponse
	err := c.do(ctx, http.MethodPost, "/api/analyze", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
