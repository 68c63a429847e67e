// ABOUTME: Chat completion pipeline with model and credential fallback
// ABOUTME: History windowing, per-attempt timeout, tool-call detection
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/tlemaire/pilotage/models"
	"github.com/tlemaire/pilotage/tools"
)

const (
	// historyWindow bounds how many prior turns travel with each call.
	historyWindow = 10

	// attemptTimeout bounds one model attempt. The context cancels the
	// in-flight request, it does not just stop waiting for it.
	attemptTimeout = 15 * time.Second

	maxTokens = 1024
)

const persona = "Tu es l'assistant interne d'une agence de marketing digital. " +
	"Tu aides l'équipe à suivre le pipeline commercial, les clients et les projets. " +
	"Réponds de façon concise et actionnable."

// Turn is one in-memory conversation turn. Synthetic turns (the
// scripted greeting, error placeholders) never reach the model.
type Turn struct {
	Role      string `json:"role"` // "user" or "model"
	Text      string `json:"text"`
	Synthetic bool   `json:"synthetic,omitempty"`
}

// PendingToolCall is a validated tool invocation awaiting execution.
type PendingToolCall struct {
	Name    string
	Request tools.Request
}

// Reply is the outcome of one chat call. Either Text is model prose,
// or Pending is set and Text is the synthesized confirmation.
type Reply struct {
	Text      string
	Pending   *PendingToolCall
	Model     string
	KeySource string
}

// Assistant drives the completion call pipeline.
type Assistant struct {
	resolver *Resolver
	recorder *Recorder
	models   []string
}

func NewAssistant(resolver *Resolver, recorder *Recorder, modelList []string) *Assistant {
	if len(modelList) == 0 {
		modelList = DefaultModels
	}
	return &Assistant{resolver: resolver, recorder: recorder, models: modelList}
}

// Chat sends one user message with windowed history and the declared
// tool schemas. Models are tried in order; only timeout and quota
// failures move to the next one.
func (a *Assistant) Chat(ctx context.Context, userEmail, message string, history []Turn) (*Reply, error) {
	start := time.Now()
	messages := buildContext(userEmail, message, history)

	var lastErr error
	lastSource := "none"

	for i, model := range a.models {
		// Credentials are resolved per attempt so a key change
		// mid-retry takes effect.
		api, source, err := a.resolver.Resolve()
		if err != nil {
			// Configuration errors are actionable and never retried.
			a.record(models.AILog{
				Query: message, Response: err.Error(), UserEmail: userEmail,
				Category: models.AICategoryError, Status: "config_error",
				LatencyMS: time.Since(start).Milliseconds(),
			})
			return nil, err
		}
		lastSource = source

		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		resp, err := api.CreateChatCompletion(attemptCtx, openai.ChatCompletionRequest{
			Model:     model,
			Messages:  messages,
			Tools:     tools.Definitions(),
			MaxTokens: maxTokens,
		})
		cancel()

		if err == nil && len(resp.Choices) == 0 {
			err = errors.New("empty completion response")
		}

		if err == nil {
			reply, err := a.buildReply(resp, model, source)
			if err != nil {
				// Tool-resolution failures surface; a half-acted tool
				// call must never read as success.
				a.record(models.AILog{
					Query: message, Response: err.Error(), UserEmail: userEmail,
					Category: models.AICategoryError, Status: "error",
					LatencyMS: time.Since(start).Milliseconds(), Model: model, KeySource: source,
				})
				return nil, err
			}

			category := models.AICategoryChat
			if reply.Pending != nil {
				category = models.AICategoryFunctionCall
			}
			a.record(models.AILog{
				Query: message, Response: reply.Text, UserEmail: userEmail,
				Category: category, Status: "success",
				LatencyMS: time.Since(start).Milliseconds(), Model: model, KeySource: source,
			})
			return reply, nil
		}

		lastErr = err
		class := classify(err)
		if (class == classTimeout || class == classQuota) && i < len(a.models)-1 {
			continue
		}
		// Other failures reproduce identically on the next model;
		// don't spend the time budget on them.
		break
	}

	detail := lastErr.Error()
	if classify(lastErr) == classTimeout {
		detail = fmt.Sprintf("timed out after %s", attemptTimeout)
	}

	a.record(models.AILog{
		Query: message, Response: detail, UserEmail: userEmail,
		Category: models.AICategoryError, Status: "error",
		LatencyMS: time.Since(start).Milliseconds(), KeySource: lastSource,
	})

	return nil, fmt.Errorf("completion failed (key: %s): %s", lastSource, detail)
}

// buildReply turns a raw response into a Reply, validating the first
// tool call when one is present. Batches are processed fail-closed:
// only the first call is considered.
func (a *Assistant) buildReply(resp openai.ChatCompletionResponse, model, source string) (*Reply, error) {
	choice := resp.Choices[0].Message

	if len(choice.ToolCalls) > 0 {
		call := choice.ToolCalls[0]

		var args map[string]any
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("malformed tool arguments for %s: %w", call.Function.Name, err)
			}
		}

		req, err := tools.ParseRequest(call.Function.Name, args)
		if err != nil {
			return nil, err
		}

		return &Reply{
			Text:      req.Confirmation(),
			Pending:   &PendingToolCall{Name: call.Function.Name, Request: req},
			Model:     model,
			KeySource: source,
		}, nil
	}

	return &Reply{Text: choice.Content, Model: model, KeySource: source}, nil
}

func buildContext(userEmail, message string, history []Turn) []openai.ChatCompletionMessage {
	system := persona
	if userEmail != "" {
		system += fmt.Sprintf(" Tu parles avec %s.", userEmail)
	}

	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}

	var recent []Turn
	for _, turn := range history {
		if !turn.Synthetic {
			recent = append(recent, turn)
		}
	}
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	for _, turn := range recent {
		role := openai.ChatMessageRoleUser
		if turn.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}

func (a *Assistant) record(entry models.AILog) {
	if a.recorder != nil {
		a.recorder.Record(entry)
	}
}
