package main

// Notes:
// - loadEnvConfig: variables are served from a map, so tests run in parallel
//   without touching the process environment.
// - applyEnvConfig: we test that set variables override file values and
//   that unset ones leave them alone.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alnah/go-webber/internal/config"
)

func lookupOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env := loadEnvConfig(lookupOf(map[string]string{
		"WEBBER_CONFIG":       "ci.yaml",
		"WEBBER_SNIPPETS_DIR": "src/snippets",
		"WEBBER_STATIC_DIR":   "src/parts",
		"WEBBER_TAGS":         " tags.toml ",
		"WEBBER_OUTPUT":       "public/index.html",
		"WEBBER_STYLE_SOURCE": "src/site.scss",
		"WEBBER_STYLE_OUTPUT": "public/site.css",
		"WEBBER_SASS_BINARY":  "/opt/dart-sass/sass",
	}))

	want := envConfig{
		ConfigPath:  "ci.yaml",
		SnippetsDir: "src/snippets",
		StaticDir:   "src/parts",
		Tags:        "tags.toml",
		Output:      "public/index.html",
		StyleSource: "src/site.scss",
		StyleOutput: "public/site.css",
		SassBinary:  "/opt/dart-sass/sass",
	}
	if *env != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *env, want)
	}
}

func TestLoadEnvConfig_Unset(t *testing.T) {
	t.Parallel()

	if env := loadEnvConfig(lookupOf(nil)); *env != (envConfig{}) {
		t.Errorf("loadEnvConfig() = %+v, want zero value", *env)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		environ []string
		want    []string
	}{
		{
			name:    "known vars are silent",
			environ: []string{"WEBBER_OUTPUT=x", "WEBBER_TAGS=y", "HOME=/root"},
		},
		{
			name:    "typos are reported in name order",
			environ: []string{"WEBBER_SNIPPET_DIR=x", "WEBBER_OUPUT=y", "PATH=/bin"},
			want: []string{
				"warning: unknown environment variable WEBBER_OUPUT (typo?)",
				"warning: unknown environment variable WEBBER_SNIPPET_DIR (typo?)",
			},
		},
		{
			name:    "other prefixes ignored",
			environ: []string{"MY_WEBBER_OUTPUT=x", "webber_output=y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			warnUnknownEnvVars(&buf, tt.environ)

			got := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(tt.want) == 0 {
				if buf.Len() != 0 {
					t.Errorf("unexpected warnings: %q", buf.String())
				}
				return
			}
			if strings.Join(got, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("warnings = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Override priority
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Output = "from-file.html"
		applyEnvConfig(&envConfig{Output: "from-env.html", SassBinary: "dart-sass"}, cfg)

		if cfg.Output != "from-env.html" {
			t.Errorf("Output = %q, want from-env.html", cfg.Output)
		}
		if cfg.Stylesheet.SassBinary != "dart-sass" {
			t.Errorf("SassBinary = %q, want dart-sass", cfg.Stylesheet.SassBinary)
		}
	})

	t.Run("unset values keep config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Tags = "tags.json"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Tags != "tags.json" {
			t.Errorf("Tags = %q, want tags.json", cfg.Tags)
		}
		if cfg.Snippets != "snippets" {
			t.Errorf("Snippets = %q, want default", cfg.Snippets)
		}
	})
}
