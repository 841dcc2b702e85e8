package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllModels(t *testing.T) {
	models := AllModels()
	require.Len(t, models, 4)

	for _, model := range models {
		assert.NotEmpty(t, model.ID, "model id should not be empty")
		assert.NotEmpty(t, model.Description, "model description should not be empty")
	}
	assert.Equal(t, DefaultModel, models[0])
}

func TestModelFromID(t *testing.T) {
	tests := []struct {
		id     string
		wantOK bool
	}{
		{"llama-3.3-70b-versatile", true},
		{"llama-3.1-70b-versatile", true},
		{"mixtral-8x7b-32768", true},
		{"gemma2-9b-it", true},
		{"gpt-4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, ok := ModelFromID(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.id, m.ID)
			}
		})
	}
}

func TestModelIndex(t *testing.T) {
	assert.Equal(t, 0, ModelIndex("llama-3.3-70b-versatile"))
	assert.Equal(t, 3, ModelIndex("gemma2-9b-it"))
	assert.Equal(t, -1, ModelIndex("unknown"))
	assert.Equal(t, []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-70b-versatile",
		"mixtral-8x7b-32768",
		"gemma2-9b-it",
	}, ModelIDs())
}

func TestRequestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RequestConfig
		wantErr bool
	}{
		{"defaults", DefaultRequestConfig(), false},
		{"lower bounds", RequestConfig{Model: "m", Temperature: 0, MaxTokens: 256}, false},
		{"upper bounds", RequestConfig{Model: "m", Temperature: 2, MaxTokens: 4096}, false},
		{"missing model", RequestConfig{Temperature: 0.7, MaxTokens: 1024}, true},
		{"temperature too high", RequestConfig{Model: "m", Temperature: 2.1, MaxTokens: 1024}, true},
		{"negative temperature", RequestConfig{Model: "m", Temperature: -0.1, MaxTokens: 1024}, true},
		{"nan temperature", RequestConfig{Model: "m", Temperature: math.NaN(), MaxTokens: 1024}, true},
		{"too few tokens", RequestConfig{Model: "m", Temperature: 0.7, MaxTokens: 255}, true},
		{"too many tokens", RequestConfig{Model: "m", Temperature: 0.7, MaxTokens: 4097}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestConfigNormalize(t *testing.T) {
	got := RequestConfig{Temperature: 3.7, MaxTokens: 10}.Normalize()
	assert.Equal(t, DefaultModel.ID, got.Model)
	assert.Equal(t, 2.0, got.Temperature)
	assert.Equal(t, 256, got.MaxTokens)
	assert.NoError(t, got.Validate())
}

func TestRequestConfigNormalize_KeepsInRangeValues(t *testing.T) {
	cfg := RequestConfig{Model: ModelGemma2.ID, Temperature: 0.75, MaxTokens: 1000}
	assert.Equal(t, cfg, cfg.Normalize())
}

func TestClampTemperature(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{0.74, 0.74},
		{0.75, 0.75},
		{1.99, 1.99},
		{5, 2},
		{math.NaN(), DefaultTemperature},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampTemperature(tt.in), "ClampTemperature(%v)", tt.in)
	}
}

func TestClampMaxTokens(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 256},
		{256, 256},
		{300, 300},
		{1000, 1000},
		{4095, 4095},
		{99999, 4096},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampMaxTokens(tt.in), "ClampMaxTokens(%d)", tt.in)
	}
}

func TestSnapTemperature(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0.74, 0.7},
		{0.76, 0.8},
		{0.7 + TemperatureStep, 0.8},
		{1.99, 2.0},
		{5, 2},
		{math.NaN(), DefaultTemperature},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SnapTemperature(tt.in), 1e-9, "SnapTemperature(%v)", tt.in)
	}
}

func TestSnapMaxTokens(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 256},
		{300, 256},
		{400, 512},
		{1000, 1024},
		{4000, 4096},
		{99999, 4096},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnapMaxTokens(tt.in), "SnapMaxTokens(%d)", tt.in)
	}
}

func TestNewChatRequestSerializesTranscriptInOrder(t *testing.T) {
	turns := []Turn{
		NewUserTurn("A"),
		NewAssistantTurn("B"),
		NewUserTurn("C"),
	}
	req := NewChatRequest(turns, RequestConfig{Model: "m", Temperature: 0.7, MaxTokens: 1024})

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"model": "m",
		"messages": [
			{"role": "user", "content": "A"},
			{"role": "assistant", "content": "B"},
			{"role": "user", "content": "C"}
		],
		"temperature": 0.7,
		"max_tokens": 1024
	}`, string(data))

	// The request owns its copy of the transcript
	turns[0] = NewUserTurn("changed")
	assert.Equal(t, "A", req.Messages[0].Content)
}

func TestTurnHelpers(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAssistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.True(t, NewUserTurn("  \n").IsEmpty())
	assert.False(t, NewUserTurn("hi").IsEmpty())
}

func TestCompletion(t *testing.T) {
	c := &Completion{Content: "Hello!", FinishReason: "length"}
	assert.Equal(t, NewAssistantTurn("Hello!"), c.Turn())
	assert.True(t, c.Truncated())

	var nilCompletion *Completion
	assert.False(t, nilCompletion.Truncated())
	assert.Equal(t, RoleAssistant, nilCompletion.Turn().Role)
}
