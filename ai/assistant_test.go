// ABOUTME: Tests for the chat completion pipeline
// ABOUTME: Scripted fake API exercising fallback, windowing, and tool calls
package ai

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tlemaire/pilotage/db"
	"github.com/tlemaire/pilotage/models"
)

// fakeAPI scripts one response per model and records every request.
type fakeAPI struct {
	mu       sync.Mutex
	requests []openai.ChatCompletionRequest
	handler  func(model string) (openai.ChatCompletionResponse, error)
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.handler(req.Model)
}

func (f *fakeAPI) callsFor(model string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.requests {
		if req.Model == model {
			n++
		}
	}
	return n
}

func textResponse(text string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: text}},
		},
	}
}

func toolResponse(name, args string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					{Type: openai.ToolTypeFunction, Function: openai.FunctionCall{Name: name, Arguments: args}},
				},
			}},
		},
	}
}

func setupAssistant(t *testing.T, fake *fakeAPI) (*Assistant, *sql.DB, *Recorder) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	resolver := NewResolver(database, "shared-fallback-key-long-enough", func(string) CompletionAPI { return fake })
	recorder := NewRecorder(database)
	return NewAssistant(resolver, recorder, nil), database, recorder
}

func TestChatFallbackOnQuota(t *testing.T) {
	fake := &fakeAPI{handler: func(model string) (openai.ChatCompletionResponse, error) {
		if model == DefaultModels[0] {
			return openai.ChatCompletionResponse{}, errors.New("429: quota exceeded")
		}
		return textResponse("Bonjour !"), nil
	}}
	assistant, database, recorder := setupAssistant(t, fake)

	reply, err := assistant.Chat(context.Background(), "claire@agence.fr", "salut", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bonjour !", reply.Text)
	// The reply and the log both carry the fallback model, not the primary.
	assert.Equal(t, DefaultModels[1], reply.Model)

	recorder.Wait()
	logs, err := db.ListAILogs(database, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, DefaultModels[1], logs[0].Model)
	assert.Equal(t, "success", logs[0].Status)
}

func TestChatNonRetryableStopsLoop(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("400: invalid request payload")
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	_, err := assistant.Chat(context.Background(), "claire@agence.fr", "salut", nil)
	require.Error(t, err)

	// The second model was never attempted.
	assert.Equal(t, 1, fake.callsFor(DefaultModels[0]))
	assert.Equal(t, 0, fake.callsFor(DefaultModels[1]))
	// The error embeds the credential source tag.
	assert.Contains(t, err.Error(), SourceShared)
	recorder.Wait()
}

func TestChatNotFoundIsFatal(t *testing.T) {
	// 404 triggers fallback for content generation only, never chat.
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("404: model not found")
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	_, err := assistant.Chat(context.Background(), "claire@agence.fr", "salut", nil)
	require.Error(t, err)
	assert.Equal(t, 0, fake.callsFor(DefaultModels[1]))
	recorder.Wait()
}

func TestChatTimeoutFallsBack(t *testing.T) {
	fake := &fakeAPI{handler: func(model string) (openai.ChatCompletionResponse, error) {
		if model == DefaultModels[0] {
			return openai.ChatCompletionResponse{}, context.DeadlineExceeded
		}
		return textResponse("ok"), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	reply, err := assistant.Chat(context.Background(), "claire@agence.fr", "salut", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModels[1], reply.Model)
	recorder.Wait()
}

func TestChatToolCall(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return toolResponse("update_lead_status", `{"company": "Acme", "stage": "won"}`), nil
	}}
	assistant, database, recorder := setupAssistant(t, fake)

	reply, err := assistant.Chat(context.Background(), "claire@agence.fr", "passe acme en gagné", nil)
	require.NoError(t, err)

	require.NotNil(t, reply.Pending)
	assert.Equal(t, "update_lead_status", reply.Pending.Name)
	// The text is the synthesized confirmation, not model prose.
	assert.Contains(t, reply.Text, "Acme")

	recorder.Wait()
	logs, err := db.ListAILogs(database, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AICategoryFunctionCall, logs[0].Category)
}

func TestChatToolCallUnknownTool(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return toolResponse("drop_database", `{}`), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	_, err := assistant.Chat(context.Background(), "claire@agence.fr", "fais un truc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drop_database")
	recorder.Wait()
}

func TestChatHistoryWindowing(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return textResponse("ok"), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	// 14 real turns plus a synthetic greeting and error placeholder.
	history := []Turn{{Role: "model", Text: "Bonjour, comment puis-je aider ?", Synthetic: true}}
	for i := 0; i < 14; i++ {
		history = append(history, Turn{Role: "user", Text: "question"}, Turn{Role: "model", Text: "réponse"})
	}
	history = append(history, Turn{Role: "model", Text: "Une erreur est survenue", Synthetic: true})

	_, err := assistant.Chat(context.Background(), "claire@agence.fr", "nouvelle question", history)
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	msgs := fake.requests[0].Messages
	// system + 10 windowed turns + the new message
	require.Len(t, msgs, 12)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "nouvelle question", msgs[len(msgs)-1].Content)
	for _, m := range msgs {
		assert.NotContains(t, m.Content, "erreur est survenue")
	}
	recorder.Wait()
}

func TestChatDeclaresToolSchemas(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return textResponse("ok"), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	_, err := assistant.Chat(context.Background(), "claire@agence.fr", "salut", nil)
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	assert.Len(t, fake.requests[0].Tools, 2)
	recorder.Wait()
}

func TestGenerateFallbackOnNotFound(t *testing.T) {
	fake := &fakeAPI{handler: func(model string) (openai.ChatCompletionResponse, error) {
		if model == DefaultModels[0] {
			return openai.ChatCompletionResponse{}, errors.New("404: model not found")
		}
		return textResponse("generated text"), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	text, err := assistant.GenerateContent(context.Background(), "claire@agence.fr", "template prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)
	assert.Equal(t, 1, fake.callsFor(DefaultModels[1]))
	recorder.Wait()
}

func TestGenerateNoToolsNoHistory(t *testing.T) {
	fake := &fakeAPI{handler: func(string) (openai.ChatCompletionResponse, error) {
		return textResponse("ok"), nil
	}}
	assistant, _, recorder := setupAssistant(t, fake)

	_, err := assistant.GenerateContent(context.Background(), "claire@agence.fr", "prompt")
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	assert.Empty(t, fake.requests[0].Tools)
	assert.Len(t, fake.requests[0].Messages, 1)
	recorder.Wait()
}
