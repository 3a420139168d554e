package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight engines.
const (
	EnginePrism  = "prism"
	EngineChroma = "chroma"
)

// DefaultChromaStyle is used when the chroma engine has no style configured.
const DefaultChromaStyle = "github"

// Sentinel errors for highlighting.
var (
	ErrUnknownLanguage = errors.New("unknown highlight language")
	ErrHighlight       = errors.New("highlighting failed")
)

// Highlighter turns raw source code into highlighted HTML.
type Highlighter interface {
	Highlight(code string) (string, error)
}

// PrismHighlighter tokenizes code with a chroma lexer and writes
// Prism-compatible markup: <span class="token CLASS">text</span>.
// Text outside any token class is HTML-escaped and left unwrapped.
type PrismHighlighter struct {
	lexer chroma.Lexer
}

// NewPrismHighlighter creates a highlighter for the named chroma lexer
// (e.g. "javascript", "js").
func NewPrismHighlighter(language string) (*PrismHighlighter, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	return &PrismHighlighter{lexer: chroma.Coalesce(lexer)}, nil
}

// Highlight returns code as a sequence of Prism token spans.
func (p *PrismHighlighter) Highlight(code string) (string, error) {
	it, err := p.lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var b strings.Builder
	b.Grow(len(code) * 2)
	for _, tok := range it.Tokens() {
		text := html.EscapeString(tok.Value)
		class := prismClass(tok.Type)
		if class == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<span class="token `)
		b.WriteString(class)
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString(`</span>`)
	}
	// Tokenise appends a newline to input lacking one; Prism does not.
	out := b.String()
	if !strings.HasSuffix(code, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out, nil
}

// prismClass maps a chroma token type to the nearest Prism token class.
// Order matters: specific types are checked before their categories.
func prismClass(t chroma.TokenType) string {
	switch {
	case t == chroma.KeywordConstant:
		return "boolean"
	case t == chroma.OperatorWord:
		return "keyword"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameBuiltin, t == chroma.NameBuiltinPseudo:
		return "builtin"
	case t == chroma.NameClass:
		return "class-name"
	case t == chroma.NameFunction:
		return "function"
	case t == chroma.LiteralStringRegex:
		return "regex"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t.InCategory(chroma.Operator):
		return "operator"
	case t == chroma.Punctuation:
		return "punctuation"
	case t.InCategory(chroma.Comment):
		return "comment"
	}
	return ""
}

// ChromaCSS returns the class-based CSS for a chroma style.
func ChromaCSS(style string) (string, error) {
	if style == "" {
		style = DefaultChromaStyle
	}
	s := styles.Get(style) // falls back to the default style for unknown names
	var b strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&b, s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}

// Compile-time interface check.
var _ Highlighter = (*PrismHighlighter)(nil)
