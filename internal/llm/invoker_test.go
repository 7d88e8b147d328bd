package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebwray/relay/internal/exchange"
)

var echoExchange = &exchange.Exchange{
	Name:        "echo",
	Instruction: "Echo the message.",
	Inputs:      []exchange.Field{{Name: "message"}},
	Outputs:     []exchange.Field{{Name: "reply"}},
}

func bindEcho(t *testing.T, message string) *exchange.Instance {
	t.Helper()
	in, err := echoExchange.Bind(map[string]string{"message": message})
	require.NoError(t, err)
	return in
}

func TestInvoker_Invoke(t *testing.T) {
	provider := NewScriptedProvider().WithResponse("hi", "Hi!")
	iv := NewInvoker(provider, DeterministicConfig("test-model"), zerolog.Nop())

	outputs, err := iv.Invoke(context.Background(), bindEcho(t, "hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hi!", outputs["reply"])

	// The request carries exactly the bound configuration.
	require.Len(t, provider.Calls, 1)
	assert.Equal(t, "test-model", provider.Calls[0].Model)
	assert.Equal(t, 0.0, provider.Calls[0].Temperature)
}

func TestInvoker_Invoke_BackendError(t *testing.T) {
	provider := NewScriptedProvider()
	provider.Err = errors.New("connection refused")
	iv := NewInvoker(provider, DeterministicConfig("test-model"), zerolog.Nop())

	_, err := iv.Invoke(context.Background(), bindEcho(t, "hi"))
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "echo", genErr.Exchange)
}

func TestInvoker_Invoke_EmptyResponse(t *testing.T) {
	provider := NewScriptedProvider() // no script, no default: empty content
	iv := NewInvoker(provider, DeterministicConfig("test-model"), zerolog.Nop())

	_, err := iv.Invoke(context.Background(), bindEcho(t, "hi"))
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestInvoker_Invoke_ParseError(t *testing.T) {
	multi := &exchange.Exchange{
		Name:        "multi",
		Instruction: "Produce two fields.",
		Inputs:      []exchange.Field{{Name: "message"}},
		Outputs:     []exchange.Field{{Name: "x"}, {Name: "y"}},
	}
	in, err := multi.Bind(map[string]string{"message": "hi"})
	require.NoError(t, err)

	provider := NewScriptedProvider().WithDefault("x: only one field")
	iv := NewInvoker(provider, DeterministicConfig("test-model"), zerolog.Nop())

	_, err = iv.Invoke(context.Background(), in)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "multi", parseErr.Exchange)
	assert.Equal(t, "x: only one field", parseErr.Output)
}

func TestInvoker_Config(t *testing.T) {
	cheap := NewInvoker(NewScriptedProvider(), DeterministicConfig("small"), zerolog.Nop())
	creative := NewInvoker(NewScriptedProvider(), CreativeConfig("large"), zerolog.Nop())

	assert.Equal(t, 0.0, cheap.Config().Temperature)
	assert.Equal(t, "small", cheap.Config().Model)
	assert.Greater(t, creative.Config().Temperature, 0.0)
	assert.Equal(t, "large", creative.Config().Model)
}
