package models

import (
	"fmt"
	"math"
)

// RequestConfig is the snapshot of sampling settings taken when a message is
// submitted. It is not stored with the transcript.
type RequestConfig struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultRequestConfig returns the settings the picker starts with
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		Model:       DefaultModel.ID,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// Validate checks that every field is within the accepted range
func (c RequestConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if math.IsNaN(c.Temperature) || c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		return fmt.Errorf("temperature %.2f out of range [%.1f, %.1f]", c.Temperature, MinTemperature, MaxTemperature)
	}
	if c.MaxTokens < MinMaxTokens || c.MaxTokens > MaxMaxTokens {
		return fmt.Errorf("max tokens %d out of range [%d, %d]", c.MaxTokens, MinMaxTokens, MaxMaxTokens)
	}
	return nil
}

// Normalize clamps the sampling values into range. In-range values are
// kept as given. An empty model falls back to the default.
func (c RequestConfig) Normalize() RequestConfig {
	if c.Model == "" {
		c.Model = DefaultModel.ID
	}
	c.Temperature = ClampTemperature(c.Temperature)
	c.MaxTokens = ClampMaxTokens(c.MaxTokens)
	return c
}

// ClampTemperature limits t to [MinTemperature, MaxTemperature]
func ClampTemperature(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultTemperature
	}
	return math.Max(MinTemperature, math.Min(MaxTemperature, t))
}

// ClampMaxTokens limits n to [MinMaxTokens, MaxMaxTokens]
func ClampMaxTokens(n int) int {
	return max(MinMaxTokens, min(MaxMaxTokens, n))
}

// SnapTemperature clamps t and rounds it to the slider step
func SnapTemperature(t float64) float64 {
	t = ClampTemperature(t)
	t = math.Round(t/TemperatureStep) * TemperatureStep
	return math.Round(t*10) / 10
}

// SnapMaxTokens clamps n and rounds it to the slider step
func SnapMaxTokens(n int) int {
	n = ClampMaxTokens(n)
	return ClampMaxTokens(int(math.Round(float64(n)/MaxTokensStep)) * MaxTokensStep)
}

// ChatRequest is the JSON body of a completion request
type ChatRequest struct {
	Model       string  `json:"model"`
	Messages    []Turn  `json:"messages"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// NewChatRequest builds the request body from a transcript and a config.
// The transcript is copied so later store mutations cannot leak into the body.
func NewChatRequest(turns []Turn, cfg RequestConfig) ChatRequest {
	messages := make([]Turn, len(turns))
	copy(messages, turns)
	return ChatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}
