// Package orchestrator sequences one conversational turn through the
// pipeline: classify the message, conditionally run a tool stage, then always
// generate a response. It owns the session's conversation history and the
// fallback policy for recoverable stage failures.
package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/calebwray/relay/internal/router"
	"github.com/calebwray/relay/internal/tools"
)

// State is the turn-processing state of a session.
type State int

const (
	// StateIdle means the session is waiting for the next user message.
	StateIdle State = iota
	// StateClassifying means the intent router is running.
	StateClassifying
	// StateToolExecuting means a tool stage is gathering context.
	StateToolExecuting
	// StateResponding means the response generator is running.
	StateResponding
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateClassifying:
		return "classifying"
	case StateToolExecuting:
		return "tool_executing"
	case StateResponding:
		return "responding"
	default:
		return "unknown"
	}
}

// IntentClassifier decides which branch a message takes.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (router.Intent, error)
}

// Responder produces the final reply from history, message, and tool context.
type Responder interface {
	Respond(ctx context.Context, history *History, message, toolContext string) (string, error)
}

// Session processes turns for one conversation. It owns the history and a
// dispatch table from intent to tool stage. Not safe for concurrent use by
// multiple goroutines; run one Session per conversation.
type Session struct {
	id         string
	classifier IntentClassifier
	responder  Responder
	stages     map[router.Intent]tools.ToolStage
	history    *History
	state      State
	log        zerolog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithToolStage registers a tool stage for an intent. Intents without a stage
// go straight from classification to response generation.
func WithToolStage(intent router.Intent, stage tools.ToolStage) SessionOption {
	return func(s *Session) { s.stages[intent] = stage }
}

// WithLogger sets the session logger.
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session with an empty history.
func NewSession(classifier IntentClassifier, responder Responder, opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		classifier: classifier,
		responder:  responder,
		stages:     make(map[router.Intent]tools.ToolStage),
		history:    &History{},
		state:      StateIdle,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// History returns the session's conversation history.
func (s *Session) History() *History { return s.history }

// State returns the current turn-processing state.
func (s *Session) State() State { return s.state }

// Process runs one full turn: classify, optionally execute a tool stage, then
// generate the reply.
//
// Failure policy: classification and tool failures degrade to a chat-only
// response with empty tool context and never fail the turn. A response
// generation failure is terminal for the turn; it is returned to the caller
// and the history is left unmodified, so retrying the same message is safe.
func (s *Session) Process(ctx context.Context, message string) (string, error) {
	defer func() { s.state = StateIdle }()

	s.state = StateClassifying
	toolContext := ""

	intent, err := s.classifier.Classify(ctx, message)
	if err != nil {
		// Fall back to a chat-only turn. A wrong branch costs grounding,
		// not correctness; aborting here would cost the whole turn.
		s.log.Warn().Err(err).Msg("classification failed, falling back to chat")
		intent = router.IntentChat
	} else if stage, ok := s.stages[intent]; ok {
		s.state = StateToolExecuting
		result, err := stage.Execute(ctx, message)
		if err != nil {
			s.log.Warn().Err(err).Stringer("intent", intent).Msg("tool stage failed, responding without context")
		} else {
			toolContext = result
		}
	}

	s.state = StateResponding
	reply, err := s.responder.Respond(ctx, s.history, message, toolContext)
	if err != nil {
		return "", err
	}

	s.history.Append(Turn{User: message, Assistant: reply})
	s.log.Debug().Stringer("intent", intent).Int("history_len", s.history.Len()).Msg("turn completed")
	return reply, nil
}
