package answers

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const defaultAnthropicModel = "claude-haiku-4-5-20251001"

// anthropicClient implements Client using the official anthropic-sdk-go.
type anthropicClient struct {
	client sdk.Client
	apiKey string
	model  string
	maxTok int
}

// NewAnthropic creates an Anthropic-backed answers client.
func NewAnthropic(apiKey string, opts ...Option) Client {
	o := options{
		model:     defaultAnthropicModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(&o)
	}

	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if o.baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(o.baseURL))
	}

	return &anthropicClient{
		client: sdk.NewClient(sdkOpts...),
		apiKey: apiKey,
		model:  o.model,
		maxTok: o.maxTokens,
	}
}

func (c *anthropicClient) Provider() string { return ProviderAnthropic }

func (c *anthropicClient) Configured() bool { return c.apiKey != "" }

func (c *anthropicClient) Ask(ctx context.Context, systemInstruction, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: int64(c.maxTok),
		System:    []sdk.TextBlockParam{{Text: systemInstruction}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
