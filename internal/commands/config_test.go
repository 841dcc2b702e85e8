package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("config"))
	assert.Equal(t, 1, te.tui.configCalls)
	assert.Equal(t, 0, te.tui.chatCalls)
}

func TestConfigCmd_Error(t *testing.T) {
	te := newTestEnv(t)
	te.tui.err = errors.New("save failed")

	assert.EqualError(t, te.run("config"), "save failed")
}

func TestNewConfigCmd_Metadata(t *testing.T) {
	cmd := NewConfigCmd(newTestEnv(t).deps)

	assert.Equal(t, "config", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "never stored")
}
