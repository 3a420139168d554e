package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	webber "github.com/alnah/go-webber"
	"github.com/alnah/go-webber/internal/config"
	"github.com/alnah/go-webber/internal/fileutil"
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/hints"
	"github.com/alnah/go-webber/internal/pipeline"
	"github.com/alnah/go-webber/internal/report"
	"github.com/alnah/go-webber/internal/tags"
	"github.com/alnah/go-webber/internal/watch"
)

// skipMessage is printed when the CI guard stops the build.
const skipMessage = "index build terminated, parent commit is a Travis build!"

// timingLabel prefixes the duration line of each build.
const timingLabel = "Webber"

// runMain parses args, runs the build and returns the process exit code.
func runMain(args []string, env *Environment) int {
	flags, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return ExitUsage
	}
	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "webber %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := interruptContext(context.Background())
	defer stop()

	return exitCodeFor(run(ctx, flags, env))
}

// session holds what every build of one invocation shares.
type session struct {
	builder    *webber.Builder
	input      webber.Input
	sassBinary string
	verbose    bool
	out        *report.Printer // nil when --quiet
	errs       *report.Printer
}

// run loads configuration, builds once and, with --watch, keeps rebuilding
// until ctx is canceled. Every failure is reported before it is returned.
func run(ctx context.Context, flags *cliFlags, env *Environment) error {
	_, noColorEnv := env.Lookup("NO_COLOR")
	noColor := flags.common.noColor || noColorEnv

	s := &session{errs: report.New(env.Stderr, noColor), verbose: flags.common.verbose}
	if !flags.common.quiet {
		s.out = report.New(env.Stdout, noColor)
	}

	warnUnknownEnvVars(env.Stderr, env.Environ())

	envCfg := loadEnvConfig(env.Lookup)
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		s.errs.Error("configuration loading", err)
		return err
	}
	applyEnvConfig(envCfg, cfg)
	applyFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		s.errs.Error("configuration loading", err)
		return err
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Snippets: %s, tags: %s, output: %s, highlight: %s\n",
			cfg.Snippets, cfg.Tags, cfg.Output, cfg.Highlight.Engine)
	}

	opts, err := builderOptions(cfg, env)
	if err != nil {
		s.errs.Error("configuration loading", err)
		return err
	}
	if s.builder, err = webber.NewBuilder(opts...); err != nil {
		s.errs.Error("builder setup", err)
		return err
	}
	s.input = inputFor(cfg)
	s.sassBinary = cfg.Stylesheet.SassBinary

	err = s.build(ctx)
	if !flags.build.watch {
		return err
	}
	return s.watch(ctx, cfg)
}

// loadConfig resolves the config file: --config, then WEBBER_CONFIG, then
// the optional default name. Explicit names must exist.
func loadConfig(flagValue, envValue string) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = envValue
	}
	if name == "" {
		cfg, err := config.LoadConfig(config.DefaultName)
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.DefaultConfig(), nil
		}
		return cfg, err
	}

	cfg, err := config.LoadConfig(name)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
	}
	return cfg, err
}

// applyFlags overrides config values with the flags that are set.
func applyFlags(flags *cliFlags, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Snippets, flags.paths.snippets)
	set(&cfg.StaticParts.Dir, flags.paths.staticParts)
	set(&cfg.Tags, flags.paths.tags)
	set(&cfg.Output, flags.paths.output)
	set(&cfg.Stylesheet.Source, flags.paths.styleSource)
	set(&cfg.Stylesheet.Output, flags.paths.styleOutput)

	if flags.build.noMinify {
		cfg.Minify.Enabled = false
	}
	if flags.build.force {
		cfg.Guard.Enabled = false
	}
}

// builderOptions translates config into builder options.
func builderOptions(cfg *config.Config, env *Environment) ([]webber.Option, error) {
	opts := []webber.Option{
		webber.WithHighlightEngine(cfg.Highlight.Engine),
		webber.WithLanguage(cfg.Highlight.Language),
		webber.WithLexer(cfg.Highlight.Lexer),
		webber.WithChromaStyle(cfg.Highlight.Style),
		webber.WithSassBinary(cfg.Stylesheet.SassBinary),
	}
	if !cfg.Minify.Enabled {
		opts = append(opts, webber.WithoutMinify())
	}

	if cfg.Guard.Enabled {
		rule, err := cfg.GuardRule()
		if err != nil {
			return nil, err
		}
		var fallback guard.MessageSource
		if cfg.Guard.GitFallback {
			fallback = guard.HeadCommitMessage(cfg.Guard.Repo)
		}
		opts = append(opts, webber.WithGuard(rule, env.Lookup, fallback))
	} else {
		opts = append(opts, webber.WithoutGuard())
	}

	return append(opts, env.Options...), nil
}

// inputFor locates the build inputs and outputs described by cfg.
func inputFor(cfg *config.Config) webber.Input {
	in := webber.Input{
		SnippetsDir: cfg.Snippets,
		StaticDir:   cfg.StaticParts.Dir,
		HeaderName:  cfg.StaticParts.Header,
		FooterName:  cfg.StaticParts.Footer,
		TagSource:   cfg.Tags,
		Output:      cfg.Output,
	}
	if cfg.Stylesheet.Enabled {
		in.Stylesheet = &webber.Stylesheet{
			Source: cfg.Stylesheet.Source,
			Output: cfg.Stylesheet.Output,
		}
	}
	return in
}

// build runs one build and reports its outcome.
func (s *session) build(ctx context.Context) error {
	result, err := s.builder.Build(ctx, s.input)
	if result != nil && result.Skipped {
		s.out.NoBuild(skipMessage)
		if s.verbose {
			s.errs.Info("Commit message: %q", strings.TrimSpace(result.SkipCommit))
		}
		return nil
	}

	if result != nil && result.Stylesheet.Attempted {
		name := filepath.Base(result.Stylesheet.Path)
		if result.Stylesheet.Err != nil {
			s.errs.Error(name+" file generation",
				fmt.Errorf("%w%s", result.Stylesheet.Err, hints.ForSassBinary(s.sassBinary)))
		} else {
			s.out.Success("%s file generated!", name)
		}
	}

	if err != nil {
		s.errs.Error(stageFor(err, s.input.Output), withHint(err, s.input))
		return err
	}

	for _, name := range result.Untagged {
		s.out.Warn("snippet %q has no tag entry and is left out of the page", name)
	}
	for _, id := range result.DanglingLinks {
		s.out.Warn("table of contents links to missing anchor #%s", id)
	}
	if s.verbose {
		s.errs.Info("Snippets: %d, tag entries: %d, categories: %d",
			result.Snippets, result.TagEntries, result.Categories)
	}
	s.out.Success("%s file generated!", filepath.Base(result.OutputPath))
	s.out.Timing(timingLabel, result.Duration)
	return nil
}

// watch rebuilds on input changes until ctx is canceled.
func (s *session) watch(ctx context.Context, cfg *config.Config) error {
	targets := []watch.Target{
		{Path: cfg.Snippets, Dir: true},
		{Path: cfg.StaticParts.Dir, Dir: true},
		{Path: cfg.Tags},
	}
	ignore := []string{cfg.Output}
	if cfg.Stylesheet.Enabled {
		// Partials sit next to the entry point.
		if dir := filepath.Dir(cfg.Stylesheet.Source); fileutil.DirExists(dir) {
			targets = append(targets, watch.Target{Path: dir, Dir: true})
		}
		ignore = append(ignore, cfg.Stylesheet.Output)
	}

	w := watch.New(targets,
		watch.WithIgnore(ignore...),
		watch.WithErrorHandler(func(err error) { s.errs.Warn("watch: %v", err) }),
	)
	s.out.Info("Watching for changes, press Ctrl-C to stop")

	if err := w.Run(ctx, func(ctx context.Context) { _ = s.build(ctx) }); err != nil {
		s.errs.Error("watching", err)
		return err
	}
	return nil
}

// stageFor names the failed stage the way the build log reads.
func stageFor(err error, output string) string {
	switch {
	case errors.Is(err, webber.ErrStaticPart):
		return "static part loading"
	case errors.Is(err, webber.ErrSnippets):
		return "snippet loading"
	case errors.Is(err, webber.ErrTags):
		return "tag loading"
	default:
		return filepath.Base(output) + " generation"
	}
}

// withHint appends an actionable hint to err when one applies.
func withHint(err error, in webber.Input) error {
	var hint string
	switch {
	case errors.Is(err, webber.ErrStaticPart):
		hint = hints.ForStaticPart(in.StaticDir, in.HeaderFile(), in.FooterFile())
	case errors.Is(err, tags.ErrUnsupportedSource):
		hint = hints.ForTagSource(tags.SupportedExtensions())
	case errors.Is(err, pipeline.ErrMissingSnippet):
		hint = hints.ForMissingSnippet()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
