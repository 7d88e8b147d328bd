package llm

import (
	"context"
	"strings"
)

// ScriptedProvider is a fixed-output Provider for tests and offline runs.
// Responses are keyed by the user prompt; unmatched prompts fall back to
// Default. Every request is recorded for call-count and payload assertions.
type ScriptedProvider struct {
	responses map[string]string
	// Default is returned when no scripted response matches.
	Default string
	// Err, when set, fails every call.
	Err error
	// Calls records every request in order.
	Calls []*ChatRequest
}

// NewScriptedProvider creates an empty scripted provider.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{responses: make(map[string]string)}
}

// WithResponse scripts a response for an exact user prompt.
func (p *ScriptedProvider) WithResponse(userPrompt, response string) *ScriptedProvider {
	p.responses[userPrompt] = response
	return p
}

// WithDefault sets the fallback response.
func (p *ScriptedProvider) WithDefault(response string) *ScriptedProvider {
	p.Default = response
	return p
}

// Name returns the provider identifier.
func (p *ScriptedProvider) Name() string { return "scripted" }

// Chat implements Provider.
func (p *ScriptedProvider) Chat(_ context.Context, req *ChatRequest) (*ChatResponse, error) {
	p.Calls = append(p.Calls, req)
	if p.Err != nil {
		return nil, p.Err
	}

	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}

	if resp, ok := p.responses[prompt]; ok {
		return &ChatResponse{Content: resp, Model: req.Model}, nil
	}
	// Partial match keeps multi-input prompts scriptable by fragment.
	for key, resp := range p.responses {
		if key != "" && strings.Contains(prompt, key) {
			return &ChatResponse{Content: resp, Model: req.Model}, nil
		}
	}
	return &ChatResponse{Content: p.Default, Model: req.Model}, nil
}
