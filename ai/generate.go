// ABOUTME: Single-shot content generation with its own fallback policy
// ABOUTME: Quota OR model-not-found moves to the next model, nothing else
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tlemaire/pilotage/models"
)

// GenerateContent issues one template-filled prompt with no history
// and no tool schemas, and returns the model's text.
//
// This deliberately does NOT share the chat loop: template calls can
// hit model-name/availability errors chat never sees, so not-found is
// retryable here and only here. There is also no per-attempt timeout;
// the call rides on the completion request's own latency.
func (a *Assistant) GenerateContent(ctx context.Context, userEmail, prompt string) (string, error) {
	start := time.Now()

	var lastErr error
	lastSource := "none"

	for i, model := range a.models {
		api, source, err := a.resolver.Resolve()
		if err != nil {
			a.record(models.AILog{
				Query: truncate(prompt, 500), Response: err.Error(), UserEmail: userEmail,
				Category: models.AICategoryError, Status: "config_error",
				LatencyMS: time.Since(start).Milliseconds(),
			})
			return "", err
		}
		lastSource = source

		resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens: 2048,
		})

		if err == nil && len(resp.Choices) == 0 {
			err = errors.New("empty completion response")
		}

		if err == nil {
			text := resp.Choices[0].Message.Content
			a.record(models.AILog{
				Query: truncate(prompt, 500), Response: truncate(text, 2000), UserEmail: userEmail,
				Category: models.AICategoryGeneration, Status: "success",
				LatencyMS: time.Since(start).Milliseconds(), Model: model, KeySource: source,
			})
			return text, nil
		}

		lastErr = err
		class := classify(err)
		if (class == classQuota || class == classNotFound) && i < len(a.models)-1 {
			continue
		}
		break
	}

	a.record(models.AILog{
		Query: truncate(prompt, 500), Response: lastErr.Error(), UserEmail: userEmail,
		Category: models.AICategoryError, Status: "error",
		LatencyMS: time.Since(start).Milliseconds(), KeySource: lastSource,
	})

	return "", fmt.Errorf("generation failed (key: %s): %s", lastSource, lastErr.Error())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
