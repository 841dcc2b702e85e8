// Package render turns assistant replies into styled terminal output.
package render

import "strings"

// Markdown renders markdown content for terminal display using a pooled
// renderer for the given options.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// Reply renders an assistant reply, falling back to the raw text when
// rendering fails. Surrounding blank lines added by glamour are trimmed.
func Reply(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
