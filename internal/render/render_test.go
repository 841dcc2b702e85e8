package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/groqchat/internal/config"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, 80, opts.Width)
	assert.Equal(t, StyleDark, opts.Style)
	assert.True(t, opts.EnableEmoji)
	assert.True(t, opts.PreserveNewLines)
	assert.True(t, opts.TableWrap)
	assert.False(t, opts.InlineTableLinks)
}

func TestOptionsWith(t *testing.T) {
	opts := DefaultOptions().WithWidth(120).WithStyle(StyleLight)
	assert.Equal(t, 120, opts.Width)
	assert.Equal(t, StyleLight, opts.Style)

	narrow := DefaultOptions().WithWidth(3)
	assert.Equal(t, MinWidth, narrow.Width)
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(config.MarkdownConfig{Style: StyleDracula, InlineTableLinks: true})
	assert.Equal(t, StyleDracula, opts.Style)
	assert.False(t, opts.EnableEmoji)
	assert.True(t, opts.InlineTableLinks)

	empty := FromConfig(config.MarkdownConfig{})
	assert.Equal(t, StyleDark, empty.Style)
}

func TestLoadOptions_EnvOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Markdown.Style = StyleLight

	t.Setenv(StyleEnv, "")
	assert.Equal(t, StyleLight, LoadOptions(cfg).Style)

	t.Setenv(StyleEnv, StyleNoTTY)
	assert.Equal(t, StyleNoTTY, LoadOptions(cfg).Style)
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("# Title\n\nSome **bold** text", DefaultOptions().WithStyle(StyleNoTTY))
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "bold")
}

func TestMarkdown_Wraps(t *testing.T) {
	out, err := Markdown(strings.Repeat("word ", 40), DefaultOptions().WithWidth(40))
	require.NoError(t, err)
	assert.Contains(t, out, "word")
	assert.Greater(t, strings.Count(strings.Trim(out, "\n"), "\n"), 2, "long text wraps")
}

func TestMarkdown_UnknownStyle(t *testing.T) {
	freshRenderers(t)

	_, err := Markdown("text", DefaultOptions().WithStyle("/nonexistent/style.json"))
	assert.Error(t, err)
}

func TestReply(t *testing.T) {
	out := Reply("Hello **there**", DefaultOptions().WithStyle(StyleASCII))
	assert.Contains(t, out, "Hello")
	assert.False(t, strings.HasPrefix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n"))

	raw := Reply("plain", DefaultOptions().WithStyle("/nonexistent/style.json"))
	assert.Equal(t, "plain", raw)
}

// freshRenderers swaps in an empty renderer cache for the test
func freshRenderers(t *testing.T) {
	t.Helper()
	saved := renderers
	renderers = newRendererCache()
	t.Cleanup(func() { renderers = saved })
}

func TestRendererCache_ReusesByOptions(t *testing.T) {
	freshRenderers(t)

	opts := DefaultOptions().WithStyle(StyleNoTTY)
	r, err := renderers.acquire(opts)
	require.NoError(t, err)
	require.NotNil(t, r)
	renderers.release(opts, r)
	renderers.release(opts, nil)
	assert.Len(t, renderers.sets, 1)

	_, err = renderers.acquire(DefaultOptions().WithStyle(StyleNoTTY))
	require.NoError(t, err)
	assert.Len(t, renderers.sets, 1, "equal options share a cache")

	_, err = renderers.acquire(opts.WithWidth(100))
	require.NoError(t, err)
	assert.Len(t, renderers.sets, 2)
}

func TestRendererCache_StyleErrorNotCached(t *testing.T) {
	freshRenderers(t)

	opts := DefaultOptions().WithStyle("/nonexistent/style.json")
	r, err := renderers.acquire(opts)
	assert.Error(t, err)
	assert.Nil(t, r)

	_, err = renderers.acquire(opts)
	assert.Error(t, err, "a broken style fails every time")
}

func TestMarkdown_Concurrent(t *testing.T) {
	opts := DefaultOptions().WithStyle(StyleNoTTY)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("- one\n- two", opts); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestStyles(t *testing.T) {
	names := StyleNames()
	require.Len(t, names, len(AvailableStyles()))
	assert.Equal(t, StyleDark, names[0])
	for _, name := range names {
		assert.True(t, IsBuiltinStyle(name), name)
	}
	assert.False(t, IsBuiltinStyle("/tmp/custom.json"))
}

func TestTUIThemes(t *testing.T) {
	defer SetTUITheme(DefaultTUITheme)

	assert.Equal(t, []string{"tokyonight", "groq", "catppuccin", "nord"}, TUIThemeNames())
	assert.Equal(t, DefaultTUITheme, GetTUITheme().Name)

	assert.True(t, SetTUITheme("groq"))
	assert.Equal(t, "groq", GetTUITheme().Name)

	assert.False(t, SetTUITheme("missing"))
	assert.Equal(t, "groq", GetTUITheme().Name)

	themes := AvailableTUIThemes()
	themes[0].Name = "mutated"
	_, ok := GetTUIThemeByName("tokyonight")
	assert.True(t, ok)

	for _, theme := range AvailableTUIThemes() {
		assert.NotEmpty(t, theme.Primary, theme.Name)
		assert.NotEmpty(t, theme.Error, theme.Name)
	}
}
