package models

// Usage reports token accounting returned with a completion
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the parsed result of a successful completion request
type Completion struct {
	ID           string
	Model        string
	Content      string
	FinishReason string
	Usage        Usage
}

// Turn converts the completion into the assistant turn appended to the transcript
func (c *Completion) Turn() Turn {
	if c == nil {
		return NewAssistantTurn("")
	}
	return NewAssistantTurn(c.Content)
}

// Truncated reports whether generation stopped because of the max tokens budget
func (c *Completion) Truncated() bool {
	return c != nil && c.FinishReason == "length"
}
