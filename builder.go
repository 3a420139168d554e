package webber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-webber/internal/assets"
	"github.com/alnah/go-webber/internal/fileutil"
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/pipeline"
	"github.com/alnah/go-webber/internal/snippets"
	"github.com/alnah/go-webber/internal/stylesheet"
	"github.com/alnah/go-webber/internal/tags"
)

// Builder runs the site build pipeline.
// Create with NewBuilder(); a Builder is reusable across builds (watch mode)
// but builds must not run concurrently on the same output.
type Builder struct {
	cfg         builderConfig
	renderer    pipeline.Renderer
	highlighter pipeline.Highlighter
	assembler   *pipeline.Assembler
	minifier    *pipeline.HTMLMinifier
	compiler    stylesheet.Compiler
	extraCSS    string
}

// NewBuilder creates a Builder with default configuration: prism
// highlighting of js blocks, minification on, the Travis CI guard read
// from the process environment.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg: builderConfig{
			engine:       pipeline.EnginePrism,
			language:     pipeline.DefaultLanguage,
			lexer:        defaultLexer,
			style:        pipeline.DefaultChromaStyle,
			minify:       true,
			guardEnabled: true,
			rule:         guard.DefaultRule(),
			lookup:       os.LookupEnv,
		},
		minifier: pipeline.NewHTMLMinifier(),
	}

	for _, opt := range opts {
		opt(b)
	}

	switch strings.ToLower(b.cfg.engine) {
	case "", pipeline.EnginePrism:
		if b.renderer == nil {
			b.renderer = pipeline.NewGoldmarkConverter()
		}
		if b.highlighter == nil {
			h, err := pipeline.NewPrismHighlighter(b.cfg.lexer)
			if err != nil {
				return nil, err
			}
			b.highlighter = h
		}
	case pipeline.EngineChroma:
		if b.renderer == nil {
			b.renderer = pipeline.NewGoldmarkConverter(pipeline.WithChromaHighlighting(b.cfg.style))
		}
		// Goldmark already highlighted every block.
		b.highlighter = nil

		css, err := pipeline.ChromaCSS(b.cfg.style)
		if err != nil {
			return nil, err
		}
		if b.cfg.minify {
			if css, err = b.minifier.MinifyCSS(css); err != nil {
				return nil, err
			}
		}
		b.extraCSS = css
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidEngine, b.cfg.engine)
	}

	if b.compiler == nil {
		b.compiler = stylesheet.NewDartSass(b.cfg.sassBinary)
	}
	b.assembler = pipeline.NewAssembler(b.renderer, b.highlighter, b.cfg.language)

	return b, nil
}

// Build runs the whole pipeline for in.
//
// The returned Result is non-nil whenever the guard let the build proceed,
// even on error, so the stylesheet outcome can still be reported. Stylesheet
// failures never fail the build. Recovers from internal panics to prevent
// crashes from propagating to callers.
func (b *Builder) Build(ctx context.Context, in Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	if d := b.checkGuard(); d.Skip {
		return &Result{Skipped: true, SkipReason: d.Reason, SkipCommit: d.Message}, nil
	}

	result = &Result{OutputPath: in.Output}
	defer func() { result.Duration = time.Since(start) }()

	// The stylesheet goes to a different file than the page, so it builds
	// alongside the HTML pipeline and is waited for before returning.
	var g errgroup.Group
	defer func() { _ = g.Wait() }()
	if in.Stylesheet != nil {
		result.Stylesheet = StylesheetResult{Attempted: true, Path: in.Stylesheet.Output}
		g.Go(func() error {
			result.Stylesheet.Err = stylesheet.Build(ctx, b.compiler, stylesheet.BuildInput{
				Source: in.Stylesheet.Source,
				Output: in.Stylesheet.Output,
				Extra:  b.extraCSS,
			})
			return nil
		})
	}

	return result, b.buildPage(ctx, in, result)
}

// checkGuard consults the CI guard unless it is disabled.
func (b *Builder) checkGuard() guard.Decision {
	if !b.cfg.guardEnabled || b.cfg.lookup == nil {
		return guard.Decision{}
	}
	return b.cfg.rule.Check(b.cfg.lookup, b.cfg.fallback)
}

// buildPage loads inputs, assembles, normalizes, minifies, verifies and
// writes the page. Each stage takes the previous stage's output.
func (b *Builder) buildPage(ctx context.Context, in Input, result *Result) error {
	set, err := snippets.Load(in.SnippetsDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSnippets, err)
	}

	parts, err := loadStaticParts(in)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStaticPart, err)
	}

	tagMap, err := tags.Load(ctx, in.TagSource)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTags, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	result.Snippets = set.Len()
	result.TagEntries = tagMap.Len()
	result.Categories = len(tagMap.Categories())
	result.Untagged = set.Untagged(tagMap.Has)

	page, err := b.assembler.Assemble(ctx, pipeline.Page{
		Header:   parts.Header,
		Footer:   parts.Footer,
		Snippets: set,
		Tags:     tagMap,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAssemble, err)
	}

	page = pipeline.NormalizeHighlights(page)

	if b.cfg.minify {
		if page, err = b.minifier.Minify(page); err != nil {
			return fmt.Errorf("%w: %w", ErrMinify, err)
		}
	}

	// Unparseable pages are still written; the check only adds warnings.
	if outline, err := pipeline.ParseOutline(page); err == nil {
		result.DanglingLinks = outline.DanglingLinks()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(in.Output, []byte(page)); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	result.Bytes = len(page)
	return nil
}

func loadStaticParts(in Input) (*assets.StaticParts, error) {
	loader, err := assets.NewFilesystemLoader(in.StaticDir)
	if err != nil {
		return nil, err
	}
	parts, err := assets.LoadStaticParts(loader, in.HeaderFile(), in.FooterFile())
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, loader.BasePath())
	}
	return parts, nil
}
