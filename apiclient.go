package wikiquiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned for every non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the quiz backend. It makes a single attempt per call.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client that sends requests through hc.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    hc,
	}
}

// BaseURL returns the address every path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET for path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	VerboseLog("api %s %s", method, req.URL.String())

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if !json.Valid(raw) {
		raw = []byte("{}")
	}

	if res.StatusCode/100 != 2 {
		return &APIError{Status: res.StatusCode, Message: errorMessage(res.StatusCode, raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage picks the human readable message out of an error body.
// raw is always valid JSON.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []json.RawMessage
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				msgs = append(msgs, detailItemMessage(item))
			}
			if msg := strings.Join(msgs, ", "); msg != "" {
				return msg
			}
		}
	}
	return fmt.Sprintf("Request failed: %d", status)
}

func detailItemMessage(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var obj struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(item, &obj); err != nil {
		return ""
	}
	if obj.Msg != "" {
		return obj.Msg
	}
	return obj.Message
}

// Preview checks that articleURL resolves to an article.
func (c *Client) Preview(ctx context.Context, articleURL string) (*PreviewResult, error) {
	var res PreviewResult
	if err := c.Get(ctx, "/preview?url="+url.QueryEscape(articleURL), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Generate asks the backend to build a quiz for articleURL.
func (c *Client) Generate(ctx context.Context, articleURL string) (*QuizDetail, error) {
	var quiz QuizDetail
	if err := c.Post(ctx, "/generate", GenerateRequest{URL: articleURL}, &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}

// ListQuizzes returns the previously generated quizzes, newest first.
func (c *Client) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	var quizzes []QuizSummary
	if err := c.Get(ctx, "/quizzes", &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// GetQuiz fetches one quiz with all of its questions.
func (c *Client) GetQuiz(ctx context.Context, id int) (*QuizDetail, error) {
	var quiz QuizDetail
	if err := c.Get(ctx, fmt.Sprintf("/quizzes/%d", id), &quiz); err != nil {
		return nil, err
	}
	return &quiz, nil
}
