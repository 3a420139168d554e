package webber

import (
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/pipeline"
	"github.com/alnah/go-webber/internal/stylesheet"
)

// Option configures a Builder.
type Option func(*Builder)

// builderConfig holds internal configuration for Builder.
type builderConfig struct {
	engine     string
	language   string
	lexer      string
	style      string
	sassBinary string
	minify     bool

	guardEnabled bool
	rule         guard.Rule
	lookup       guard.LookupFunc
	fallback     guard.MessageSource
}

// defaultLexer is the chroma lexer used for the default "js" fence.
const defaultLexer = "javascript"

// WithHighlightEngine selects "prism" (default) or "chroma".
func WithHighlightEngine(engine string) Option {
	return func(b *Builder) {
		b.cfg.engine = engine
	}
}

// WithLanguage sets the fence language whose blocks are highlighted by the
// prism engine, and the class written on their <pre>.
func WithLanguage(language string) Option {
	return func(b *Builder) {
		if language != "" {
			b.cfg.language = language
		}
	}
}

// WithLexer sets the chroma lexer used by the prism engine.
func WithLexer(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.cfg.lexer = name
		}
	}
}

// WithChromaStyle sets the chroma style whose CSS is appended to the
// stylesheet when the chroma engine is selected.
func WithChromaStyle(style string) Option {
	return func(b *Builder) {
		if style != "" {
			b.cfg.style = style
		}
	}
}

// WithoutMinify writes the page as assembled.
func WithoutMinify() Option {
	return func(b *Builder) {
		b.cfg.minify = false
	}
}

// WithGuard replaces the CI guard rule and its inputs. lookup reads the
// environment (os.LookupEnv in production); fallback may be nil.
func WithGuard(rule guard.Rule, lookup guard.LookupFunc, fallback guard.MessageSource) Option {
	return func(b *Builder) {
		b.cfg.guardEnabled = true
		b.cfg.rule = rule
		if lookup != nil {
			b.cfg.lookup = lookup
		}
		b.cfg.fallback = fallback
	}
}

// WithoutGuard always builds, even for self-triggered CI commits.
func WithoutGuard() Option {
	return func(b *Builder) {
		b.cfg.guardEnabled = false
	}
}

// WithSassBinary sets the dart-sass executable used by the default compiler.
func WithSassBinary(path string) Option {
	return func(b *Builder) {
		b.cfg.sassBinary = path
	}
}

// WithCompiler replaces the stylesheet compiler.
func WithCompiler(c stylesheet.Compiler) Option {
	return func(b *Builder) {
		b.compiler = c
	}
}

// WithRenderer replaces the Markdown renderer.
func WithRenderer(r pipeline.Renderer) Option {
	return func(b *Builder) {
		b.renderer = r
	}
}

// WithHighlighter replaces the code highlighter of the prism engine.
func WithHighlighter(h pipeline.Highlighter) Option {
	return func(b *Builder) {
		b.highlighter = h
	}
}
