package respond

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebwray/relay/internal/llm"
	"github.com/calebwray/relay/internal/orchestrator"
)

func newTestGenerator(provider llm.Provider) *Generator {
	invoker := llm.NewInvoker(provider, llm.CreativeConfig("test-model"), zerolog.Nop())
	return NewGenerator(invoker, zerolog.Nop())
}

func TestGenerator_Respond(t *testing.T) {
	provider := llm.NewScriptedProvider().WithDefault("Hi there!")
	g := newTestGenerator(provider)

	history := &orchestrator.History{}
	history.Append(orchestrator.Turn{User: "hello", Assistant: "hey"})

	reply, err := g.Respond(context.Background(), history, "how are you?", "")
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", reply)

	// The prompt carries the serialized history and the current message.
	require.Len(t, provider.Calls, 1)
	prompt := provider.Calls[0].Messages[0].Content
	assert.Contains(t, prompt, "user: hello")
	assert.Contains(t, prompt, "assistant: hey")
	assert.Contains(t, prompt, "how are you?")
}

func TestGenerator_Respond_ToolContextInPrompt(t *testing.T) {
	provider := llm.NewScriptedProvider().WithDefault("It is Macron.")
	g := newTestGenerator(provider)

	toolContext := "<web_search_results>Macron</web_search_results>"
	_, err := g.Respond(context.Background(), &orchestrator.History{}, "who is the president?", toolContext)
	require.NoError(t, err)

	require.Len(t, provider.Calls, 1)
	assert.Contains(t, provider.Calls[0].Messages[0].Content, toolContext)
}

func TestGenerator_Respond_CreativeConfig(t *testing.T) {
	provider := llm.NewScriptedProvider().WithDefault("ok")
	g := newTestGenerator(provider)

	_, err := g.Respond(context.Background(), &orchestrator.History{}, "hi", "")
	require.NoError(t, err)

	require.Len(t, provider.Calls, 1)
	assert.Greater(t, provider.Calls[0].Temperature, 0.0)
}

func TestGenerator_Respond_ErrorPropagates(t *testing.T) {
	provider := llm.NewScriptedProvider()
	provider.Err = errors.New("rate limited")
	g := newTestGenerator(provider)

	_, err := g.Respond(context.Background(), &orchestrator.History{}, "hi", "")
	require.Error(t, err)

	var genErr *llm.GenerationError
	assert.ErrorAs(t, err, &genErr)
}
