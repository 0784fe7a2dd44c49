package generator

import (
	"context"
	"time"
)

// LLMClient abstracts the chat-completion endpoint so it can be replaced or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the configuration handed to concrete clients.
type LLMSettings struct {
	Provider    string
	Model       string
	VisionModel string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Referer     string
	AppTitle    string
}

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultTextModel   = "openai/gpt-5-chat"
	DefaultVisionModel = "google/gemini-3-flash-preview"
	DefaultTimeout     = 90 * time.Second
)
