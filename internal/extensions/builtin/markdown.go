package builtin

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/orkinosai25-org/mosaic/extensions"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownExtensionName is the registration name of the Markdown renderer.
const MarkdownExtensionName = "markdown"

// FormatMarkdown marks content requests whose body is Markdown.
const FormatMarkdown = "markdown"

// MarkdownOptions configures the goldmark engine.
type MarkdownOptions struct {
	// Extensions lists goldmark extensions by name (gfm, table, footnote...).
	// Empty selects gfm, linkify and tasklist.
	Extensions []string
	HardWraps  bool
	// Unsafe lets raw HTML in the source through to the output.
	Unsafe bool
}

// MarkdownRenderer is a content-rendering extension converting Markdown
// bodies to HTML. Requests in any other format pass through unchanged.
type MarkdownRenderer struct {
	engine goldmark.Markdown
}

// NewMarkdownRenderer builds a renderer with a goldmark engine configured once.
func NewMarkdownRenderer(opts MarkdownOptions) *MarkdownRenderer {
	return &MarkdownRenderer{engine: newEngine(opts)}
}

// Extension wraps the renderer for registration on the content-rendering point.
func (m *MarkdownRenderer) Extension() extensions.Extension {
	return extensions.ContentRendering(MarkdownExtensionName, m)
}

func (m *MarkdownRenderer) RenderContent(ctx context.Context, req extensions.ContentRequest) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(req.Format), FormatMarkdown) {
		return req.Body, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := m.engine.Convert([]byte(req.Body), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

func newEngine(opts MarkdownOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

var markdownExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}
	var out []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := markdownExtensions[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ext)
	}
	return out
}
