// Package tools contains the tool stages the orchestrator can dispatch to,
// plus the search backends they call. A tool stage maps a user message to
// externally-fetched context text: one structured extraction exchange, then
// one opaque backend call.
package tools

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calebwray/relay/internal/exchange"
	"github.com/calebwray/relay/internal/llm"
)

// ToolStage is the extension point keyed by intent in the orchestrator's
// dispatch table. Adding an intent means adding one implementation here and
// one map entry there.
type ToolStage interface {
	// Execute maps the full user message to formatted context text.
	Execute(ctx context.Context, message string) (string, error)
}

// ToolError means query extraction or the backend call failed. The
// orchestrator treats it as "no tool context available", never a failed turn.
type ToolError struct {
	Stage string
	Err   error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Stage, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Searcher executes a query and returns formatted result text.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearchStage extracts a query from the user message via the cheap invoker and
// runs it against the search backend. Results pass through verbatim; every
// call re-executes the search, nothing is cached between turns.
type SearchStage struct {
	invoker  *llm.Invoker
	searcher Searcher
	log      zerolog.Logger
}

// NewSearchStage creates a search tool stage. The invoker is expected to carry
// the deterministic cheap-tier configuration.
func NewSearchStage(invoker *llm.Invoker, searcher Searcher, log zerolog.Logger) *SearchStage {
	return &SearchStage{
		invoker:  invoker,
		searcher: searcher,
		log:      log.With().Str("component", "search-stage").Logger(),
	}
}

var _ ToolStage = (*SearchStage)(nil)

// Execute runs extraction then search. Any failure, including an empty
// extracted query, is a *ToolError.
func (s *SearchStage) Execute(ctx context.Context, message string) (string, error) {
	in, err := exchange.ExtractQuery.Bind(map[string]string{
		"message": message,
	})
	if err != nil {
		return "", &ToolError{Stage: "search", Err: err}
	}

	outputs, err := s.invoker.Invoke(ctx, in)
	if err != nil {
		return "", &ToolError{Stage: "search", Err: err}
	}

	query := outputs["query"]
	if query == "" {
		return "", &ToolError{Stage: "search", Err: fmt.Errorf("extraction produced an empty query")}
	}

	s.log.Debug().Str("query", query).Msg("executing search")

	result, err := s.searcher.Search(ctx, query)
	if err != nil {
		return "", &ToolError{Stage: "search", Err: err}
	}
	return result, nil
}
