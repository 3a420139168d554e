package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-webber/internal/assets"
	"github.com/alnah/go-webber/internal/fileutil"
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/pipeline"
	"github.com/alnah/go-webber/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRequired   = errors.New("required field is empty")
	ErrInvalidValue    = errors.New("invalid field value")
)

// DefaultName is the config name looked up when --config is a bare name.
const DefaultName = "webber"

// Field length limits.
const (
	MaxPathLength    = 4096 // PATH_MAX on Linux
	MaxNameLength    = 100  // Lexer, style, language, env var names
	MaxPatternLength = 500  // Guard regular expression
)

// Config holds all configuration for a site build.
type Config struct {
	Snippets    string            `yaml:"snippets"`
	StaticParts StaticPartsConfig `yaml:"staticParts"`
	Tags        string            `yaml:"tags"`
	Output      string            `yaml:"output"`
	Stylesheet  StylesheetConfig  `yaml:"stylesheet"`
	Highlight   HighlightConfig   `yaml:"highlight"`
	Minify      MinifyConfig      `yaml:"minify"`
	Guard       GuardConfig       `yaml:"guard"`
}

// StaticPartsConfig locates the header and footer fragments.
type StaticPartsConfig struct {
	Dir    string `yaml:"dir"`
	Header string `yaml:"header"` // File name inside Dir
	Footer string `yaml:"footer"` // File name inside Dir
}

// StylesheetConfig defines the SCSS build.
type StylesheetConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Source     string `yaml:"source"`
	Output     string `yaml:"output"`
	SassBinary string `yaml:"sassBinary"` // Empty = "sass" on PATH
}

// HighlightConfig defines code block highlighting.
type HighlightConfig struct {
	Engine   string `yaml:"engine"`   // "prism" (default) or "chroma"
	Language string `yaml:"language"` // Fence language to highlight (default: "js")
	Lexer    string `yaml:"lexer"`    // Chroma lexer for the prism engine (default: "javascript")
	Style    string `yaml:"style"`    // Chroma style for the chroma engine (default: "github")
}

// MinifyConfig toggles the minification stage.
type MinifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GuardConfig defines when a CI build skips itself.
type GuardConfig struct {
	Enabled     bool     `yaml:"enabled"`
	CIVars      []string `yaml:"ciVars"`
	MessageVar  string   `yaml:"messageVar"`
	Pattern     string   `yaml:"pattern"`
	GitFallback bool     `yaml:"gitFallback"` // Read HEAD when MessageVar is empty
	Repo        string   `yaml:"repo"`        // Directory inside the repository (default: ".")
}

// DefaultConfig returns the layout of a snippet repository: snippets/,
// static-parts/, tag_database and docs/.
func DefaultConfig() *Config {
	return &Config{
		Snippets: "snippets",
		StaticParts: StaticPartsConfig{
			Dir:    "static-parts",
			Header: assets.DefaultHeaderName,
			Footer: assets.DefaultFooterName,
		},
		Tags:   "tag_database",
		Output: filepath.Join("docs", "index.html"),
		Stylesheet: StylesheetConfig{
			Enabled: true,
			Source:  filepath.Join("docs", "mini", "flavor.scss"),
			Output:  filepath.Join("docs", "mini.css"),
		},
		Highlight: HighlightConfig{
			Engine:   pipeline.EnginePrism,
			Language: pipeline.DefaultLanguage,
			Lexer:    "javascript",
			Style:    pipeline.DefaultChromaStyle,
		},
		Minify: MinifyConfig{Enabled: true},
		Guard: GuardConfig{
			Enabled:    true,
			CIVars:     []string{"TRAVIS", "CI"},
			MessageVar: "TRAVIS_COMMIT_MESSAGE",
			Pattern:    guard.DefaultPattern,
			Repo:       ".",
		},
	}
}

// Validate checks required fields, enumerations and field lengths.
// Called automatically by LoadConfig, but available for callers that
// build a Config from flags and environment only.
func (c *Config) Validate() error {
	required := []struct {
		field, value string
	}{
		{"snippets", c.Snippets},
		{"staticParts.dir", c.StaticParts.Dir},
		{"tags", c.Tags},
		{"output", c.Output},
	}
	if c.Stylesheet.Enabled {
		required = append(required,
			struct{ field, value string }{"stylesheet.source", c.Stylesheet.Source},
			struct{ field, value string }{"stylesheet.output", c.Stylesheet.Output},
		)
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, r.field)
		}
		if err := validateFieldLength(r.field, r.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("stylesheet.sassBinary", c.Stylesheet.SassBinary, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("guard.repo", c.Guard.Repo, MaxPathLength); err != nil {
		return err
	}

	// Fragment names are bare file names inside staticParts.dir.
	for field, name := range map[string]string{
		"staticParts.header": c.StaticParts.Header,
		"staticParts.footer": c.StaticParts.Footer,
	} {
		if err := assets.ValidatePartName(name); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	switch strings.ToLower(c.Highlight.Engine) {
	case "", pipeline.EnginePrism, pipeline.EngineChroma:
		// valid
	default:
		return fmt.Errorf("%w: highlight.engine %q (must be %s or %s)",
			ErrInvalidValue, c.Highlight.Engine, pipeline.EnginePrism, pipeline.EngineChroma)
	}
	for field, value := range map[string]string{
		"highlight.language": c.Highlight.Language,
		"highlight.lexer":    c.Highlight.Lexer,
		"highlight.style":    c.Highlight.Style,
		"guard.messageVar":   c.Guard.MessageVar,
	} {
		if err := validateFieldLength(field, value, MaxNameLength); err != nil {
			return err
		}
	}
	if strings.ContainsAny(c.Highlight.Language, "\"<> ") {
		return fmt.Errorf("%w: highlight.language %q", ErrInvalidValue, c.Highlight.Language)
	}

	for i, name := range c.Guard.CIVars {
		if err := validateFieldLength(fmt.Sprintf("guard.ciVars[%d]", i), name, MaxNameLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("guard.pattern", c.Guard.Pattern, MaxPatternLength); err != nil {
		return err
	}
	if _, err := c.GuardRule(); err != nil {
		return fmt.Errorf("guard.pattern: %w", err)
	}

	return nil
}

// GuardRule builds the guard rule described by the config.
func (c *Config) GuardRule() (guard.Rule, error) {
	return guard.NewRule(c.Guard.CIVars, c.Guard.MessageVar, c.Guard.Pattern)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their defaults. The result is not
// validated: callers apply their overrides first, then call Validate.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// current directory, then the user config directory ($XDG_CONFIG_HOME/go-webber/).
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-webber", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
