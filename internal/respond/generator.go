// Package respond holds the terminal pipeline stage: turning the accumulated
// conversation, the current message, and optional tool context into the final
// reply via the creative-tier invoker.
package respond

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/calebwray/relay/internal/exchange"
	"github.com/calebwray/relay/internal/llm"
	"github.com/calebwray/relay/internal/orchestrator"
)

// Generator produces the final natural-language reply.
type Generator struct {
	invoker *llm.Invoker
	log     zerolog.Logger
}

// NewGenerator creates a generator bound to the given invoker. The invoker is
// expected to carry the creative configuration.
func NewGenerator(invoker *llm.Invoker, log zerolog.Logger) *Generator {
	return &Generator{
		invoker: invoker,
		log:     log.With().Str("component", "respond").Logger(),
	}
}

var _ orchestrator.Responder = (*Generator)(nil)

// Respond runs the response exchange with serialized history, the user
// message, and tool context ("" when no tool ran). The reply passes through
// unmodified. Errors propagate to the caller: this is the terminal stage, so
// there is no fallback here.
func (g *Generator) Respond(ctx context.Context, history *orchestrator.History, message, toolContext string) (string, error) {
	in, err := exchange.GenerateResponse.Bind(map[string]string{
		"history": history.Serialize(),
		"context": toolContext,
		"message": message,
	})
	if err != nil {
		return "", err
	}

	outputs, err := g.invoker.Invoke(ctx, in)
	if err != nil {
		return "", err
	}

	g.log.Debug().Bool("grounded", toolContext != "").Msg("reply generated")
	return outputs["reply"], nil
}
