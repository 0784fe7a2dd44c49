package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// OpenRouter speaks the same wire format, so it is reached through the base URL.
type OpenAILLM struct {
	Model   string
	Timeout time.Duration
	Opts    []option.RequestOption

	hasKey bool
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	// The SDK retries by default; callers own retry decisions here.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(withTrailingSlash(cfg.BaseURL)))
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.AppTitle != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.AppTitle))
	}
	return &OpenAILLM{
		Model:   cfg.Model,
		Timeout: timeout,
		Opts:    opts,
		hasKey:  strings.TrimSpace(cfg.APIKey) != "",
	}, nil
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// HasCredential reports whether an API key was configured.
func (o *OpenAILLM) HasCredential() bool {
	return o.hasKey
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if !o.hasKey {
		return "", ErrMissingAPIKey
	}
	model := prompt.Model
	if model == "" {
		model = o.Model
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	client := openai.NewClient(o.Opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    toOpenAIMessages(prompt),
		Temperature: openai.Float(0),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion %s: status %d: %w", model, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("completion %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(prompt Prompt) []openai.ChatCompletionMessageParamUnion {
	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
	}
	for _, h := range prompt.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	if len(prompt.Images) == 0 {
		return append(msgs, openai.UserMessage(prompt.User))
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt.User),
	}
	for _, img := range prompt.Images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: img.DataURL(),
		}))
	}
	return append(msgs, openai.UserMessage(parts))
}
