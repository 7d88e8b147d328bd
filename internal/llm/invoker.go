package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/calebwray/relay/internal/exchange"
)

// Invoker binds one Provider to one GenerationConfig and executes structured
// exchanges against it: render the instance into prompts, call the backend,
// map the returned text onto the declared output fields.
//
// The mutex serializes calls when a single invoker (and its connection handle)
// is shared between stages, e.g. the cheap-tier invoker reused by the
// classifier and the query extractor. It is held only for the duration of one
// backend call.
type Invoker struct {
	provider Provider
	cfg      GenerationConfig
	log      zerolog.Logger
	mu       sync.Mutex
}

// NewInvoker creates an invoker bound to the given provider and configuration.
func NewInvoker(provider Provider, cfg GenerationConfig, log zerolog.Logger) *Invoker {
	return &Invoker{
		provider: provider,
		cfg:      cfg,
		log:      log.With().Str("model", cfg.Model).Logger(),
	}
}

// Config returns the bound generation configuration.
func (iv *Invoker) Config() GenerationConfig {
	return iv.cfg
}

// Invoke executes one structured exchange. Backend failure or an empty
// response is a *GenerationError; text that does not match the declared output
// schema is a *ParseError. No retries here; policy belongs to the caller.
func (iv *Invoker) Invoke(ctx context.Context, in *exchange.Instance) (map[string]string, error) {
	name := in.Exchange.Name

	req := &ChatRequest{
		Model:        iv.cfg.Model,
		SystemPrompt: in.SystemPrompt(),
		Messages: []Message{
			{Role: "user", Content: in.UserPrompt()},
		},
		MaxTokens:   iv.cfg.MaxTokens,
		Temperature: iv.cfg.Temperature,
	}

	if iv.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, iv.cfg.Timeout)
		defer cancel()
	}

	iv.mu.Lock()
	resp, err := iv.provider.Chat(ctx, req)
	iv.mu.Unlock()

	if err != nil {
		return nil, &GenerationError{Exchange: name, Err: err}
	}
	if resp == nil || resp.Content == "" {
		return nil, &GenerationError{Exchange: name, Err: fmt.Errorf("empty response")}
	}

	iv.log.Debug().
		Str("exchange", name).
		Int("tokens", resp.TokensUsed).
		Dur("duration", resp.Duration).
		Msg("exchange completed")

	outputs, err := in.Exchange.ParseOutputs(resp.Content)
	if err != nil {
		return nil, &ParseError{Exchange: name, Output: resp.Content, Err: err}
	}
	return outputs, nil
}
