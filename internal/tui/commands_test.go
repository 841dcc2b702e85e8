package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/models"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/clear", true},
		{"/model gemma2-9b-it", true},
		{"exit", true},
		{"quit", true},
		{"hello", false},
		{"exit now", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isCommand(tt.input))
		})
	}
}

func TestCommands(t *testing.T) {
	t.Run("exit", func(t *testing.T) {
		m := newTestModel(t, api.NewMockClient(), "gsk_test")
		_, cmd := typeAndSend(t, m, "/exit")
		assert.True(t, isQuit(cmd))

		_, cmd = typeAndSend(t, m, "quit")
		assert.True(t, isQuit(cmd))
	})

	t.Run("clear", func(t *testing.T) {
		m := newTestModel(t, api.NewMockClient("Hello!"), "gsk_test")
		m, sendCmd := typeAndSend(t, m, "Hi")
		m = complete(t, m, sendCmd)

		m, _ = typeAndSend(t, m, "/clear")
		assert.Equal(t, 0, m.chat.Session().Len())
		assert.Empty(t, m.textarea.Value())
	})

	t.Run("model", func(t *testing.T) {
		m := newTestModel(t, api.NewMockClient(), "gsk_test")

		m, _ = typeAndSend(t, m, "/model "+models.ModelGemma2.ID)
		require.NoError(t, m.err)
		assert.Equal(t, models.ModelGemma2.ID, m.chat.Config().Model)
		assert.Equal(t, "Model set to "+models.ModelGemma2.ID, m.notice)
		assert.Equal(t, models.ModelIndex(models.ModelGemma2.ID), m.settings.modelIdx)

		m, _ = typeAndSend(t, m, "/model gpt-4")
		assert.Error(t, m.err)
		assert.Equal(t, models.ModelGemma2.ID, m.chat.Config().Model)

		m, _ = typeAndSend(t, m, "/model")
		assert.Contains(t, m.notice, models.ModelMixtral.ID)
	})

	t.Run("settings", func(t *testing.T) {
		m := newTestModel(t, api.NewMockClient(), "gsk_test")
		m, _ = typeAndSend(t, m, "/settings")
		assert.True(t, m.showSettings)
	})

	t.Run("help", func(t *testing.T) {
		m := newTestModel(t, api.NewMockClient(), "gsk_test")
		m, _ = typeAndSend(t, m, "/help")
		assert.Equal(t, helpText, m.notice)
		for _, key := range []string{"/exit", "esc", "ctrl+c"} {
			assert.Contains(t, m.notice, key)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		mock := api.NewMockClient()
		m := newTestModel(t, mock, "gsk_test")
		m, _ = typeAndSend(t, m, "/frobnicate")
		assert.Error(t, m.err)
		assert.Equal(t, 0, m.chat.Session().Len())
		assert.Equal(t, 0, mock.CallCount())
	})
}
