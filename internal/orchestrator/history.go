package orchestrator

import "strings"

// Turn is one completed exchange unit: the user message and the assistant
// reply recorded together.
type Turn struct {
	User      string
	Assistant string
}

// History is the append-only ordered record of a session's turns. Owned
// exclusively by the Session; the response generator receives it read-only
// and serializes it for prompt inclusion.
type History struct {
	turns []Turn
}

// Append records one completed turn.
func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
}

// Len returns the number of recorded exchange units.
func (h *History) Len() int {
	return len(h.turns)
}

// Turns returns a copy of the recorded turns in submission order.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Serialize renders the history as role-prefixed lines in submission order,
// ready for prompt inclusion. Empty history serializes to "".
func (h *History) Serialize() string {
	if len(h.turns) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, t := range h.turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("user: ")
		sb.WriteString(t.User)
		sb.WriteString("\nassistant: ")
		sb.WriteString(t.Assistant)
	}
	return sb.String()
}
