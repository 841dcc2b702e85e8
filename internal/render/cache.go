package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache hands out glamour renderers by option set. A TermRenderer
// must not run two Render calls at once, so each acquire returns one
// renderer for the caller alone until it is released.
type rendererCache struct {
	mu   sync.RWMutex
	sets map[Options]*sync.Pool
}

var renderers = newRendererCache()

func newRendererCache() *rendererCache {
	return &rendererCache{sets: make(map[Options]*sync.Pool)}
}

func (c *rendererCache) poolFor(opts Options) *sync.Pool {
	c.mu.RLock()
	pool, ok := c.sets[opts]
	c.mu.RUnlock()
	if ok {
		return pool
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if pool, ok := c.sets[opts]; ok {
		return pool
	}
	pool = &sync.Pool{}
	c.sets[opts] = pool
	return pool
}

// acquire returns an idle renderer for opts or builds a new one.
// Style errors surface here, not when the renderer is released.
func (c *rendererCache) acquire(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := c.poolFor(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return createRenderer(opts)
}

func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	c.poolFor(opts).Put(r)
}

// createRenderer builds a TermRenderer. Style is a built-in style name or
// a path to a JSON style file.
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := opts.Style
	if style == "" {
		style = StyleDark
	}

	styleOpt := glamour.WithStylePath(style)
	if IsBuiltinStyle(style) {
		styleOpt = glamour.WithStandardStyle(style)
	}

	rendererOpts := []glamour.TermRendererOption{
		styleOpt,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, fmt.Errorf("markdown style %q: %w", style, err)
	}
	return renderer, nil
}
