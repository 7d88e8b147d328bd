package exchange

// The three exchanges below are the whole prompt surface of the pipeline.
// Stage code binds them with concrete values; nothing else builds prompts.

// ClassifyIntent maps a raw user message to one intent label.
// Labels must match the router's closed intent set exactly (case-sensitive).
var ClassifyIntent = &Exchange{
	Name: "classify_intent",
	Instruction: `You are a request classifier. Classify the user's message into exactly ONE category.

Categories:
- chat: Greetings, conversation, opinions, or anything answerable without external facts
- search: Questions that need current or factual information from the web`,
	Inputs: []Field{
		{Name: "message", Description: "the raw user message"},
	},
	Outputs: []Field{
		{Name: "intent", Description: "the category name, lowercase"},
	},
}

// ExtractQuery compresses a user message into a standalone search query.
var ExtractQuery = &Exchange{
	Name: "extract_query",
	Instruction: `Extract a concise web search query from the user's message.
Keep names, dates, and qualifiers; drop filler and conversational framing.`,
	Inputs: []Field{
		{Name: "message", Description: "the raw user message"},
	},
	Outputs: []Field{
		{Name: "query", Description: "a compact search query string"},
	},
}

// GenerateResponse produces the final reply from the conversation so far, the
// current message, and whatever context the tool stage gathered (may be empty).
var GenerateResponse = &Exchange{
	Name: "generate_response",
	Instruction: `You are a helpful assistant. Answer the user's message.
Use the conversation history for continuity. If search context is provided,
ground your answer in it and do not invent sources. If the context is empty,
answer from general knowledge.`,
	Inputs: []Field{
		{Name: "history", Description: "the conversation so far"},
		{Name: "context", Description: "search results, possibly empty"},
		{Name: "message", Description: "the current user message"},
	},
	Outputs: []Field{
		{Name: "reply", Description: "the assistant reply"},
	},
}
