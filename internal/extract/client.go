package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"manualqa/internal/manual"
)

const defaultBaseURL = "https://api.anthropic.com/v1/messages"

// Client calls the Anthropic Messages API. It is a single-shot caller:
// retry policy belongs to the batch orchestrator, not here.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

// Stats returns the rolling latency tracker for this client.
func (c *Client) Stats() *Stats { return c.stats }

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractChunk submits an extraction prompt and parses the structured
// result embedded in the model's reply.
func (c *Client) ExtractChunk(ctx context.Context, prompt string) (manual.ExtractionResult, error) {
	text, err := c.complete(ctx, prompt)
	if err != nil {
		return manual.ExtractionResult{}, err
	}
	return ParseExtraction(text)
}

// AnswerQuestion submits a grounding prompt and returns the model's raw
// natural-language answer.
func (c *Client) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, prompt)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}
	c.stats.Record(time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{Message: string(respBody)}
	}
	if resp.StatusCode >= 500 {
		return "", &TransportError{Err: fmt.Errorf("model api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("model error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return apiResp.Content[0].Text, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
