package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultPerplexityBaseURL = "https://api.perplexity.ai"
	defaultPerplexityModel   = "sonar-pro"
	defaultMaxTokens         = 1024
)

// chatCompletionRequest is the request body for POST /chat/completions.
type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int         `json:"index"`
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type perplexityClient struct {
	apiKey  string
	baseURL string
	model   string
	maxTok  int
	http    *http.Client
}

// NewPerplexity creates a Perplexity-backed answers client.
func NewPerplexity(apiKey string, opts ...Option) Client {
	o := options{
		baseURL:   defaultPerplexityBaseURL,
		model:     defaultPerplexityModel,
		maxTokens: defaultMaxTokens,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &perplexityClient{
		apiKey:  apiKey,
		baseURL: o.baseURL,
		model:   o.model,
		maxTok:  o.maxTokens,
		http:    o.http,
	}
}

func (c *perplexityClient) Provider() string { return ProviderPerplexity }

func (c *perplexityClient) Configured() bool { return c.apiKey != "" }

func (c *perplexityClient) Ask(ctx context.Context, systemInstruction, prompt string) (string, error) {
	req := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
	}
	if c.maxTok > 0 {
		req.MaxTokens = &c.maxTok
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", eris.Wrap(err, "perplexity: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "perplexity: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "perplexity: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "perplexity: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("perplexity: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "perplexity: unmarshal response")
	}
	if len(result.Choices) == 0 {
		return "", eris.New("perplexity: empty choices")
	}

	return result.Choices[0].Message.Content, nil
}
