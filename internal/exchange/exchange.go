// Package exchange defines the structured prompt contracts that drive each
// generation call. An Exchange pairs an ordered set of named input fields with
// an ordered set of named output fields plus a natural-language instruction.
// Exchanges are plain immutable data: the invoker renders them into prompts and
// maps the returned text back onto the declared outputs.
package exchange

import (
	"fmt"
	"strings"
)

// Field is one named slot in an exchange schema.
type Field struct {
	// Name identifies the field in prompts and parsed output.
	Name string

	// Description tells the model what the field holds.
	Description string
}

// Exchange is a named input/output schema plus the instruction describing the
// transformation. Immutable once defined; use Bind to attach concrete values.
type Exchange struct {
	// Name identifies the exchange (used in logs and errors).
	Name string

	// Instruction is the natural-language description of the transformation.
	Instruction string

	// Inputs are the declared input fields, in prompt order.
	Inputs []Field

	// Outputs are the declared output fields, in parse order.
	Outputs []Field
}

// Instance is an Exchange instantiated with concrete input values.
type Instance struct {
	Exchange *Exchange
	Values   map[string]string
}

// Bind instantiates the exchange with concrete input values. Every declared
// input must be present; extra keys are rejected so schema drift is caught at
// the call site rather than silently dropped from the prompt.
func (e *Exchange) Bind(values map[string]string) (*Instance, error) {
	for _, f := range e.Inputs {
		if _, ok := values[f.Name]; !ok {
			return nil, fmt.Errorf("exchange %s: missing input %q", e.Name, f.Name)
		}
	}
	if len(values) != len(e.Inputs) {
		for k := range values {
			if !e.hasInput(k) {
				return nil, fmt.Errorf("exchange %s: undeclared input %q", e.Name, k)
			}
		}
	}

	bound := make(map[string]string, len(values))
	for k, v := range values {
		bound[k] = v
	}
	return &Instance{Exchange: e, Values: bound}, nil
}

func (e *Exchange) hasInput(name string) bool {
	for _, f := range e.Inputs {
		if f.Name == name {
			return true
		}
	}
	return false
}

// SystemPrompt renders the instruction plus the expected output format.
func (in *Instance) SystemPrompt() string {
	e := in.Exchange

	var sb strings.Builder
	sb.WriteString(e.Instruction)

	if len(e.Outputs) == 1 {
		out := e.Outputs[0]
		sb.WriteString("\n\nRespond with only the ")
		sb.WriteString(out.Name)
		if out.Description != "" {
			sb.WriteString(" (")
			sb.WriteString(out.Description)
			sb.WriteString(")")
		}
		sb.WriteString(", nothing else.")
		return sb.String()
	}

	sb.WriteString("\n\nRespond with one line per field, in this order:\n")
	for _, out := range e.Outputs {
		sb.WriteString(out.Name)
		sb.WriteString(": <")
		if out.Description != "" {
			sb.WriteString(out.Description)
		} else {
			sb.WriteString(out.Name)
		}
		sb.WriteString(">\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// UserPrompt renders the bound input fields in declaration order.
func (in *Instance) UserPrompt() string {
	e := in.Exchange

	// Single-input exchanges pass the value through bare; anything the model
	// sees as labelled structure costs classification accuracy on short inputs.
	if len(e.Inputs) == 1 {
		return in.Values[e.Inputs[0].Name]
	}

	var sb strings.Builder
	for i, f := range e.Inputs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(f.Name)
		sb.WriteString(":\n")
		sb.WriteString(in.Values[f.Name])
	}
	return sb.String()
}

// ParseOutputs maps returned text onto the declared output fields.
// Single-output exchanges take the whole trimmed response. Multi-output
// exchanges expect "name: value" lines. A missing field or an empty response
// is an error; the invoker classifies it as a parse failure.
func (e *Exchange) ParseOutputs(text string) (map[string]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("exchange %s: empty response", e.Name)
	}

	if len(e.Outputs) == 1 {
		return map[string]string{e.Outputs[0].Name: trimmed}, nil
	}

	out := make(map[string]string, len(e.Outputs))
	for _, line := range strings.Split(trimmed, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if e.hasOutput(name) {
			out[name] = strings.TrimSpace(value)
		}
	}

	for _, f := range e.Outputs {
		if _, ok := out[f.Name]; !ok {
			return nil, fmt.Errorf("exchange %s: output %q not found in response", e.Name, f.Name)
		}
	}
	return out, nil
}

func (e *Exchange) hasOutput(name string) bool {
	for _, f := range e.Outputs {
		if f.Name == name {
			return true
		}
	}
	return false
}
