// Package router classifies a raw user message into a closed intent set.
// Classification is one deterministic low-temperature exchange; the label in
// the response must match a known intent exactly, case-sensitively.
package router

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/calebwray/relay/internal/exchange"
	"github.com/calebwray/relay/internal/llm"
)

// Intent is the classification of a user message.
type Intent string

const (
	// IntentChat covers conversation answerable without external facts.
	IntentChat Intent = "chat"
	// IntentSearch covers questions that need information from the web.
	IntentSearch Intent = "search"
)

// AllIntents returns every valid intent, in label order.
func AllIntents() []Intent {
	return []Intent{IntentChat, IntentSearch}
}

// String returns the intent label.
func (i Intent) String() string {
	return string(i)
}

// IsValid reports whether the intent is part of the closed set.
func (i Intent) IsValid() bool {
	for _, valid := range AllIntents() {
		if i == valid {
			return true
		}
	}
	return false
}

// ClassificationError means the classifier produced a label outside the
// closed intent set. The orchestrator decides the fallback.
type ClassificationError struct {
	Label string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("unrecognized intent label %q", e.Label)
}

// Classifier maps user messages to intents via its dedicated deterministic
// invoker. It owns no fallback policy of its own.
type Classifier struct {
	invoker *llm.Invoker
	log     zerolog.Logger
}

// NewClassifier creates a classifier bound to the given invoker. The invoker
// is expected to carry the deterministic cheap-tier configuration.
func NewClassifier(invoker *llm.Invoker, log zerolog.Logger) *Classifier {
	return &Classifier{
		invoker: invoker,
		log:     log.With().Str("component", "router").Logger(),
	}
}

// Classify runs the intent-classification exchange on the message. The raw
// output label is matched against the closed enumeration exactly; anything
// else is a *ClassificationError. Invoker errors pass through unchanged.
func (c *Classifier) Classify(ctx context.Context, message string) (Intent, error) {
	in, err := exchange.ClassifyIntent.Bind(map[string]string{
		"message": message,
	})
	if err != nil {
		return "", err
	}

	outputs, err := c.invoker.Invoke(ctx, in)
	if err != nil {
		return "", err
	}

	label := outputs["intent"]
	intent := Intent(label)
	if !intent.IsValid() {
		return "", &ClassificationError{Label: label}
	}

	c.log.Debug().Str("intent", label).Msg("message classified")
	return intent, nil
}
