package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Renderer abstracts Markdown to HTML conversion.
type Renderer interface {
	// Render converts Markdown to an HTML fragment.
	Render(ctx context.Context, content string) (string, error)
	// RenderInline converts a single line and strips the paragraph wrapper.
	RenderInline(ctx context.Context, content string) (string, error)
}

type converterOptions struct {
	chromaStyle string
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterOptions)

// WithChromaHighlighting makes Goldmark highlight every fenced code block
// with chroma CSS classes in the given style, instead of leaving code blocks
// for a Highlighter.
func WithChromaHighlighting(style string) ConverterOption {
	return func(o *converterOptions) {
		o.chromaStyle = style
	}
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with tables and
// strikethrough, the same feature set as a default CommonMark site renderer.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	var o converterOptions
	for _, opt := range opts {
		opt(&o)
	}

	extensions := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
	}
	if o.chromaStyle != "" {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(o.chromaStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // theme CSS goes into the stylesheet
			),
		))
	}

	md := goldmark.New(
		goldmark.WithParser(textOnlyHTMLParser()),
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(
			html.WithXHTML(), // Self-closing tags
		),
	)
	return &GoldmarkConverter{md: md}
}

// textOnlyHTMLParser is the default goldmark parser without the raw HTML
// block and inline parsers, so "<div>" in prose stays visible as escaped
// text instead of being omitted.
func textOnlyHTMLParser() parser.Parser {
	return parser.NewParser(
		parser.WithBlockParsers(without(parser.DefaultBlockParsers(), parser.NewHTMLBlockParser())...),
		parser.WithInlineParsers(without(parser.DefaultInlineParsers(), parser.NewRawHTMLParser())...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

// without drops the parsers of the same concrete type as drop.
func without(parsers []util.PrioritizedValue, drop any) []util.PrioritizedValue {
	dropType := reflect.TypeOf(drop)
	out := make([]util.PrioritizedValue, 0, len(parsers))
	for _, p := range parsers {
		if reflect.TypeOf(p.Value) != dropType {
			out = append(out, p)
		}
	}
	return out
}

// Render converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) Render(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(normalizeLineEndings(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// RenderInline renders content and removes <p> and </p>, keeping the
// trailing newline Goldmark emits.
func (c *GoldmarkConverter) RenderInline(ctx context.Context, content string) (string, error) {
	out, err := c.Render(ctx, content)
	if err != nil {
		return "", err
	}
	out = strings.ReplaceAll(out, "<p>", "")
	return strings.ReplaceAll(out, "</p>", ""), nil
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// Compile-time interface check.
var _ Renderer = (*GoldmarkConverter)(nil)
