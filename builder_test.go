package webber

// Notes:
// - Builds run end to end on t.TempDir() repositories. The stylesheet
//   compiler is faked since dart-sass is not available to the test binary.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-webber/internal/assets"
	"github.com/alnah/go-webber/internal/guard"
	"github.com/alnah/go-webber/internal/pipeline"
	"github.com/alnah/go-webber/internal/stylesheet"
	"github.com/alnah/go-webber/internal/tags"
)

type fakeCompiler struct {
	css   string
	err   error
	calls atomic.Int32
}

func (f *fakeCompiler) Compile(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)
	return f.css, f.err
}

func noEnv(string) (string, bool) { return "", false }

func travisEnv(message string) guard.LookupFunc {
	env := map[string]string{"TRAVIS": "true", "CI": "true", "TRAVIS_COMMIT_MESSAGE": message}
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newSiteRepo lays out a snippet repository and returns its Input.
func newSiteRepo(t *testing.T) Input {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "snippets", "chunk.md"),
		"### chunk\n\nChunks an array.\n\n```js\nconst chunk = (arr, size) => arr.slice(0, size);\n```\n\n```js\nchunk([1, 2, 3], 2); // [1, 2]\n```\n")
	writeFile(t, filepath.Join(root, "snippets", "capitalize.md"),
		"### capitalize\n\nCapitalizes a string.\n\n```js\nconst capitalize = s => s[0].toUpperCase() + s.slice(1);\n```\n")
	writeFile(t, filepath.Join(root, "snippets", "draft.md"), "### draft\n\nNot tagged yet.\n")
	writeFile(t, filepath.Join(root, "static-parts", assets.DefaultHeaderName),
		"<!DOCTYPE html>\n<html>\n<head>\n<title>Snippets</title>\n</head>\n<body>\n<nav>\n")
	writeFile(t, filepath.Join(root, "static-parts", assets.DefaultFooterName),
		"</main>\n</body>\n</html>\n")
	writeFile(t, filepath.Join(root, "tag_database"), "chunk:array\ncapitalize:string,advanced\n")

	return Input{
		SnippetsDir: filepath.Join(root, "snippets"),
		StaticDir:   filepath.Join(root, "static-parts"),
		TagSource:   filepath.Join(root, "tag_database"),
		Output:      filepath.Join(root, "docs", "index.html"),
		Stylesheet: &Stylesheet{
			Source: filepath.Join(root, "docs", "mini", "flavor.scss"),
			Output: filepath.Join(root, "docs", "mini.css"),
		},
	}
}

func newTestBuilder(t *testing.T, fc *fakeCompiler, opts ...Option) *Builder {
	t.Helper()
	all := append([]Option{WithCompiler(fc), WithGuard(guard.DefaultRule(), noEnv, nil)}, opts...)
	b, err := NewBuilder(all...)
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// TestBuild - full pipeline
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	fc := &fakeCompiler{css: "body{margin:0}"}

	result, err := newTestBuilder(t, fc).Build(context.Background(), in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	page := readFile(t, in.Output)
	for _, want := range []string{
		`<a class="sublink-1" tags="array" href="#chunk">chunk</a>`,
		`id="chunk"`,
		`<mark class="tag">advanced</mark>`,
		`<pre class="language-js">`,
		`<span class="token keyword">const</span>`,
		`<label class="collapse">Show examples</label>`,
		"Copy to clipboard",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(page, "draft") {
		t.Error("untagged snippet should not be on the page")
	}
	if strings.Contains(page, "\n\n") {
		t.Error("page does not look minified")
	}

	if got := readFile(t, in.Stylesheet.Output); got != "body{margin:0}" {
		t.Errorf("stylesheet = %q, want compiled css", got)
	}

	if result.Skipped {
		t.Error("Result.Skipped = true, want false")
	}
	if result.Bytes != len(page) {
		t.Errorf("Result.Bytes = %d, want %d", result.Bytes, len(page))
	}
	if result.Snippets != 3 || result.Categories != 2 {
		t.Errorf("Result snippets/categories = %d/%d, want 3/2", result.Snippets, result.Categories)
	}
	if !slices.Equal(result.Untagged, []string{"draft"}) {
		t.Errorf("Result.Untagged = %v, want [draft]", result.Untagged)
	}
	if len(result.DanglingLinks) != 0 {
		t.Errorf("Result.DanglingLinks = %v, want none", result.DanglingLinks)
	}
	if !result.Stylesheet.Attempted || result.Stylesheet.Err != nil {
		t.Errorf("Result.Stylesheet = %+v, want attempted without error", result.Stylesheet)
	}
}

func TestBuild_WithoutMinify(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	in.Stylesheet = nil

	_, err := newTestBuilder(t, &fakeCompiler{}, WithoutMinify()).Build(context.Background(), in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	page := readFile(t, in.Output)
	if !strings.HasPrefix(page, "<!DOCTYPE html>\n<html>\n") {
		t.Errorf("page should start with the header verbatim, got %q", page[:min(len(page), 40)])
	}
	if !strings.HasSuffix(page, "\n</main>\n</body>\n</html>\n\n") {
		t.Errorf("page should end with the footer and a newline, got %q", page[max(0, len(page)-40):])
	}
}

func TestBuild_ChromaEngine(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	fc := &fakeCompiler{css: "body{margin:0}"}

	_, err := newTestBuilder(t, fc, WithHighlightEngine("chroma"), WithChromaStyle("monokai")).Build(context.Background(), in)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	page := readFile(t, in.Output)
	if !strings.Contains(page, `class="chroma"`) {
		t.Error("page should contain chroma-highlighted blocks")
	}
	css := readFile(t, in.Stylesheet.Output)
	if !strings.HasPrefix(css, "body{margin:0}\n") || !strings.Contains(css, ".chroma") {
		t.Errorf("stylesheet = %q, want compiled css followed by chroma theme", css)
	}
}

// ---------------------------------------------------------------------------
// Guard
// ---------------------------------------------------------------------------

func TestBuild_Guard(t *testing.T) {
	t.Parallel()

	t.Run("travis build commit skips without writing", func(t *testing.T) {
		t.Parallel()

		in := newSiteRepo(t)
		fc := &fakeCompiler{css: "a{}"}
		b := newTestBuilder(t, fc, WithGuard(guard.DefaultRule(), travisEnv("Travis build: 812"), nil))

		result, err := b.Build(context.Background(), in)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if !result.Skipped || result.SkipReason == "" {
			t.Errorf("Result = %+v, want skipped with reason", result)
		}
		if result.SkipCommit != "Travis build: 812" {
			t.Errorf("SkipCommit = %q, want the matched message", result.SkipCommit)
		}
		if _, err := os.Stat(in.Output); !os.IsNotExist(err) {
			t.Error("page written despite guard")
		}
		if fc.calls.Load() != 0 {
			t.Error("stylesheet compiled despite guard")
		}
	})

	t.Run("human commit builds", func(t *testing.T) {
		t.Parallel()

		in := newSiteRepo(t)
		b := newTestBuilder(t, &fakeCompiler{}, WithGuard(guard.DefaultRule(), travisEnv("Add chunk"), nil))

		result, err := b.Build(context.Background(), in)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if result.Skipped {
			t.Error("Result.Skipped = true, want false")
		}
	})

	t.Run("without guard always builds", func(t *testing.T) {
		t.Parallel()

		in := newSiteRepo(t)
		b := newTestBuilder(t, &fakeCompiler{},
			WithGuard(guard.DefaultRule(), travisEnv("Travis build: 1"), nil), WithoutGuard())

		result, err := b.Build(context.Background(), in)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if result.Skipped {
			t.Error("Result.Skipped = true, want false")
		}
	})
}

// ---------------------------------------------------------------------------
// Failures
// ---------------------------------------------------------------------------

func TestBuild_StylesheetFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	fc := &fakeCompiler{err: errors.New("Undefined variable: $fore-color")}

	result, err := newTestBuilder(t, fc).Build(context.Background(), in)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}
	if !errors.Is(result.Stylesheet.Err, stylesheet.ErrCompile) {
		t.Errorf("Result.Stylesheet.Err = %v, want ErrCompile", result.Stylesheet.Err)
	}
	if _, err := os.Stat(in.Output); err != nil {
		t.Errorf("page not written: %v", err)
	}
}

func TestBuild_MissingPartNamesResolvedDir(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	in.HeaderName = "top.html"

	_, err := newTestBuilder(t, &fakeCompiler{css: "a{}"}).Build(context.Background(), in)
	if !errors.Is(err, assets.ErrPartNotFound) {
		t.Fatalf("Build() error = %v, want ErrPartNotFound", err)
	}
	dir, evalErr := filepath.EvalSymlinks(in.StaticDir)
	if evalErr != nil {
		t.Fatal(evalErr)
	}
	if !strings.Contains(err.Error(), "(in "+dir+")") {
		t.Errorf("Build() error = %q, want resolved dir %q", err, dir)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(t *testing.T, in *Input)
		wantErr []error
	}{
		{
			name: "missing snippets dir",
			mutate: func(t *testing.T, in *Input) {
				in.SnippetsDir = filepath.Join(t.TempDir(), "absent")
			},
			wantErr: []error{ErrSnippets},
		},
		{
			name: "missing footer",
			mutate: func(t *testing.T, in *Input) {
				if err := os.Remove(filepath.Join(in.StaticDir, assets.DefaultFooterName)); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: []error{ErrStaticPart, assets.ErrPartNotFound},
		},
		{
			name: "missing static dir",
			mutate: func(t *testing.T, in *Input) {
				in.StaticDir = filepath.Join(t.TempDir(), "absent")
			},
			wantErr: []error{ErrStaticPart, assets.ErrInvalidBasePath},
		},
		{
			name: "unsupported tag source",
			mutate: func(t *testing.T, in *Input) {
				in.TagSource = filepath.Join(filepath.Dir(in.TagSource), "tags.xml")
				writeFile(t, in.TagSource, "<tags/>")
			},
			wantErr: []error{ErrTags, tags.ErrUnsupportedSource},
		},
		{
			name: "tag entry without snippet",
			mutate: func(t *testing.T, in *Input) {
				writeFile(t, in.TagSource, "chunk:array\nghost:array\n")
			},
			wantErr: []error{ErrAssemble, pipeline.ErrMissingSnippet},
		},
		{
			name: "output directory blocked by a file",
			mutate: func(t *testing.T, in *Input) {
				blocker := filepath.Join(t.TempDir(), "file")
				writeFile(t, blocker, "")
				in.Output = filepath.Join(blocker, "index.html")
			},
			wantErr: []error{ErrWrite},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := newSiteRepo(t)
			tt.mutate(t, &in)
			fc := &fakeCompiler{css: "a{}"}

			result, err := newTestBuilder(t, fc).Build(context.Background(), in)
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Build() error = %v, want %v", err, want)
				}
			}
			if result == nil || !result.Stylesheet.Attempted {
				t.Error("Result should still report the stylesheet build")
			}
		})
	}
}

func TestBuild_FailedBuildKeepsPreviousPage(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	in.Stylesheet = nil
	writeFile(t, in.Output, "previous")
	writeFile(t, in.TagSource, "ghost:array\n")

	if _, err := newTestBuilder(t, &fakeCompiler{}).Build(context.Background(), in); err == nil {
		t.Fatal("Build() error = nil, want failure")
	}
	if got := readFile(t, in.Output); got != "previous" {
		t.Errorf("page = %q, want previous content untouched", got)
	}
}

func TestBuild_InvalidInput(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	in.Output = ""
	if _, err := newTestBuilder(t, &fakeCompiler{}).Build(context.Background(), in); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Build() error = %v, want ErrEmptyInput", err)
	}
}

func TestBuild_CanceledContext(t *testing.T) {
	t.Parallel()

	in := newSiteRepo(t)
	in.Stylesheet = nil
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestBuilder(t, &fakeCompiler{}).Build(ctx, in); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(in.Output); !os.IsNotExist(err) {
		t.Error("page written despite cancellation")
	}
}

func TestNewBuilder_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewBuilder(WithHighlightEngine("pygments")); !errors.Is(err, ErrInvalidEngine) {
		t.Errorf("NewBuilder() error = %v, want ErrInvalidEngine", err)
	}
	if _, err := NewBuilder(WithLexer("no-such-lexer")); !errors.Is(err, pipeline.ErrUnknownLanguage) {
		t.Errorf("NewBuilder() error = %v, want ErrUnknownLanguage", err)
	}
}
