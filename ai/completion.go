// ABOUTME: Completion API transport over Gemini's OpenAI-compatible endpoint
// ABOUTME: Narrow interface so tests can script responses per model
package ai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// geminiBaseURL is Google's OpenAI-compatible surface for the
// generative language API.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Model fallback order: primary first, then the lighter model.
var DefaultModels = []string{"gemini-2.0-flash", "gemini-2.0-flash-lite"}

// CompletionAPI is the slice of the provider client the pipeline uses.
type CompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// APIFactory builds a client for a resolved key. Injected so the
// resolver can be exercised without network access.
type APIFactory func(apiKey string) CompletionAPI

// NewGeminiAPI is the production factory.
func NewGeminiAPI(apiKey string) CompletionAPI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = geminiBaseURL
	return openai.NewClientWithConfig(cfg)
}
