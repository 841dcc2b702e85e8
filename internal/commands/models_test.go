package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/groqchat/internal/models"
)

func markedLine(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "●") {
			return line
		}
	}
	t.Fatalf("no marked model in output:\n%s", out)
	return ""
}

func TestModelsCmd_ListsAllModels(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("models"))

	out := te.stdout.String()
	for _, m := range models.AllModels() {
		assert.Contains(t, out, m.ID)
		assert.Contains(t, out, m.Description)
	}
	assert.Contains(t, markedLine(t, out), models.DefaultModel.ID)
}

func TestModelsCmd_MarksSelectedModel(t *testing.T) {
	te := newTestEnv(t)

	require.NoError(t, te.run("models", "-m", models.ModelMixtral.ID))
	assert.Contains(t, markedLine(t, te.stdout.String()), models.ModelMixtral.ID)
}

func TestModelsCmd_MarksConfiguredModel(t *testing.T) {
	te := newTestEnv(t)
	te.cfg.DefaultModel = models.ModelGemma2.ID

	require.NoError(t, te.run("models"))
	assert.Contains(t, markedLine(t, te.stdout.String()), models.ModelGemma2.ID)
}
