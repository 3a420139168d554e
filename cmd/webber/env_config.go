package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alnah/go-webber/internal/config"
)

// envPrefix marks the variables owned by webber.
const envPrefix = "WEBBER_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without editing webber.yaml.
type envConfig struct {
	ConfigPath  string // WEBBER_CONFIG: config file name or path
	SnippetsDir string // WEBBER_SNIPPETS_DIR: snippets directory
	StaticDir   string // WEBBER_STATIC_DIR: header and footer directory
	Tags        string // WEBBER_TAGS: tag source
	Output      string // WEBBER_OUTPUT: generated page
	StyleSource string // WEBBER_STYLE_SOURCE: SCSS entry point
	StyleOutput string // WEBBER_STYLE_OUTPUT: generated CSS
	SassBinary  string // WEBBER_SASS_BINARY: dart-sass executable
}

// knownEnvVars lists valid WEBBER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WEBBER_CONFIG":       true,
	"WEBBER_SNIPPETS_DIR": true,
	"WEBBER_STATIC_DIR":   true,
	"WEBBER_TAGS":         true,
	"WEBBER_OUTPUT":       true,
	"WEBBER_STYLE_SOURCE": true,
	"WEBBER_STYLE_OUTPUT": true,
	"WEBBER_SASS_BINARY":  true,
}

// loadEnvConfig reads every recognized WEBBER_* value through lookup.
func loadEnvConfig(lookup func(string) (string, bool)) *envConfig {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	return &envConfig{
		ConfigPath:  get("WEBBER_CONFIG"),
		SnippetsDir: get("WEBBER_SNIPPETS_DIR"),
		StaticDir:   get("WEBBER_STATIC_DIR"),
		Tags:        get("WEBBER_TAGS"),
		Output:      get("WEBBER_OUTPUT"),
		StyleSource: get("WEBBER_STYLE_SOURCE"),
		StyleOutput: get("WEBBER_STYLE_OUTPUT"),
		SassBinary:  get("WEBBER_SASS_BINARY"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized WEBBER_* variables,
// in name order. Helps catch typos like WEBBER_SNIPPET_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Snippets, env.SnippetsDir)
	set(&cfg.StaticParts.Dir, env.StaticDir)
	set(&cfg.Tags, env.Tags)
	set(&cfg.Output, env.Output)
	set(&cfg.Stylesheet.Source, env.StyleSource)
	set(&cfg.Stylesheet.Output, env.StyleOutput)
	set(&cfg.Stylesheet.SassBinary, env.SassBinary)
}
