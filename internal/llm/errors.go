package llm

import "fmt"

// GenerationError means the backend call itself failed or returned nothing
// usable. The exchange name says which stage was running.
type GenerationError struct {
	Exchange string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("exchange %s: generation failed: %v", e.Exchange, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError means the backend produced text, but the text does not satisfy
// the exchange's declared output schema. Output carries the raw text for
// logging and diagnosis.
type ParseError struct {
	Exchange string
	Output   string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("exchange %s: unparseable output: %v", e.Exchange, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
