// Package models contains data types and constants for the Groq chat completion API.
package models

// EndpointChatCompletions is the OpenAI-compatible completions endpoint
const EndpointChatCompletions = "https://api.groq.com/openai/v1/chat/completions"

// RequestTimeoutSeconds bounds a single completion call
const RequestTimeoutSeconds = 30

// Sampling bounds and the step sizes offered by the settings panel
const (
	MinTemperature  = 0.0
	MaxTemperature  = 2.0
	TemperatureStep = 0.1

	MinMaxTokens  = 256
	MaxMaxTokens  = 4096
	MaxTokensStep = 256

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// Model is a hosted model identifier offered in the model picker
type Model struct {
	ID          string
	Description string
}

// Available models
var (
	ModelLlama33Versatile = Model{
		ID:          "llama-3.3-70b-versatile",
		Description: "Llama 3.3 70B, general purpose",
	}

	ModelLlama31Versatile = Model{
		ID:          "llama-3.1-70b-versatile",
		Description: "Llama 3.1 70B, general purpose",
	}

	ModelMixtral = Model{
		ID:          "mixtral-8x7b-32768",
		Description: "Mixtral 8x7B, 32k context",
	}

	ModelGemma2 = Model{
		ID:          "gemma2-9b-it",
		Description: "Gemma 2 9B instruction tuned",
	}

	// DefaultModel is the first entry of the picker
	DefaultModel = ModelLlama33Versatile
)

// AllModels returns the fixed list of selectable models in picker order
func AllModels() []Model {
	return []Model{ModelLlama33Versatile, ModelLlama31Versatile, ModelMixtral, ModelGemma2}
}

// ModelIDs returns the identifiers of AllModels
func ModelIDs() []string {
	all := AllModels()
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	return ids
}

// ModelFromID returns the model with the given identifier
func ModelFromID(id string) (Model, bool) {
	for _, m := range AllModels() {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ModelIndex returns the position of id in AllModels, or -1
func ModelIndex(id string) int {
	for i, m := range AllModels() {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// DefaultHeaders returns the headers sent with every completion request.
// Authorization is added per request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "groqchat/0.1",
	}
}
