package tools

import "context"

// StaticSearcher returns canned text for every query. It stands in for the
// real backend when no search API key is configured and in tests; the
// pipeline is indifferent to which implementation it gets.
type StaticSearcher struct {
	// Result is returned verbatim for every query.
	Result string

	// Calls counts Search invocations, for call-count assertions in tests.
	Calls int

	// LastQuery records the most recent query string.
	LastQuery string
}

// NewStaticSearcher creates a searcher that always returns result.
func NewStaticSearcher(result string) *StaticSearcher {
	return &StaticSearcher{Result: result}
}

var _ Searcher = (*StaticSearcher)(nil)

// Search returns the canned result.
func (s *StaticSearcher) Search(_ context.Context, query string) (string, error) {
	s.Calls++
	s.LastQuery = query
	return s.Result, nil
}
