package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	webber "github.com/alnah/go-webber"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - fake environment and site
// ---------------------------------------------------------------------------

// fakeCompiler stands in for dart-sass.
type fakeCompiler struct {
	css string
	err error
}

func (f fakeCompiler) Compile(_ context.Context, _ string) (string, error) {
	return f.css, f.err
}

// testEnv captures output and serves variables from vars.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(vars map[string]string, opts ...webber.Option) *testEnv {
	var stdout, stderr bytes.Buffer
	return &testEnv{
		Environment: &Environment{
			Stdout: &stdout,
			Stderr: &stderr,
			Lookup: func(key string) (string, bool) {
				v, ok := vars[key]
				return v, ok
			},
			Environ: func() []string {
				env := make([]string, 0, len(vars))
				for k, v := range vars {
					env = append(env, k+"="+v)
				}
				sort.Strings(env)
				return env
			},
			Options: opts,
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// site is a snippet repository laid out in a temp dir with its config file.
type site struct {
	root   string
	config string
	output string
	css    string
}

func newSite(t *testing.T) site {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "snippets", "chunk.md"),
		"### chunk\n\nChunks an array.\n\n```js\nconst chunk = (arr, size) => arr.slice(0, size);\n```\n")
	writeFile(t, filepath.Join(root, "snippets", "draft.md"), "### draft\n\nNot tagged yet.\n")
	writeFile(t, filepath.Join(root, "static-parts", "index-start.html"), "<html><body><nav>\n")
	writeFile(t, filepath.Join(root, "static-parts", "index-end.html"), "</main></body></html>\n")
	writeFile(t, filepath.Join(root, "tag_database"), "chunk:array\n")

	s := site{
		root:   root,
		config: filepath.Join(root, "webber.yaml"),
		output: filepath.Join(root, "docs", "index.html"),
		css:    filepath.Join(root, "docs", "mini.css"),
	}
	writeFile(t, s.config, "snippets: "+filepath.Join(root, "snippets")+"\n"+
		"staticParts:\n  dir: "+filepath.Join(root, "static-parts")+"\n"+
		"tags: "+filepath.Join(root, "tag_database")+"\n"+
		"output: "+s.output+"\n"+
		"stylesheet:\n  source: "+filepath.Join(root, "docs", "mini", "flavor.scss")+"\n  output: "+s.css+"\n")
	return s
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
