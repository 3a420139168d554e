package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGoldmarkConverter_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantNot []string
	}{
		{
			name:  "heading and paragraph",
			input: "### chunk\n\nChunks an array.",
			want:  []string{"<h3>chunk</h3>", "<p>Chunks an array.</p>"},
		},
		{
			name:  "fenced code keeps language class and escapes",
			input: "```js\nconst a = 1 < 2;\n```\n",
			want:  []string{`<pre><code class="language-js">const a = 1 &lt; 2;`},
		},
		{
			name:  "table extension",
			input: "| a | b |\n|---|---|\n| 1 | 2 |\n",
			want:  []string{"<table>", "<td>1</td>"},
		},
		{
			name:  "strikethrough extension",
			input: "~~gone~~",
			want:  []string{"<del>gone</del>"},
		},
		{
			name:    "raw html block escaped",
			input:   "<script>alert(1)</script>",
			want:    []string{"<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>"},
			wantNot: []string{"<script>", "raw HTML omitted"},
		},
		{
			name:    "inline raw html escaped",
			input:   "a <div> b",
			want:    []string{"<p>a &lt;div&gt; b</p>"},
			wantNot: []string{"raw HTML omitted"},
		},
		{
			name:    "html block text kept",
			input:   "<details>\nmore\n</details>",
			want:    []string{"&lt;details&gt;", "more", "&lt;/details&gt;"},
			wantNot: []string{"raw HTML omitted"},
		},
		{
			name:    "crlf line endings",
			input:   "### a\r\n\r\nb\r\n",
			want:    []string{"<h3>a</h3>", "<p>b</p>"},
			wantNot: []string{"\r"},
		},
	}

	c := NewGoldmarkConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Render(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Render() = %q, missing %q", got, w)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(got, w) {
					t.Errorf("Render() = %q, should not contain %q", got, w)
				}
			}
		})
	}
}

func TestGoldmarkConverter_RenderInline(t *testing.T) {
	t.Parallel()

	c := NewGoldmarkConverter()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "label", input: "Array\n", want: "Array\n"},
		{name: "link", input: "[zip](#zip)\n", want: "<a href=\"#zip\">zip</a>\n"},
		{name: "emphasis survives", input: "*x*\n", want: "<em>x</em>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.RenderInline(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("RenderInline() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderInline(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGoldmarkConverter_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewGoldmarkConverter()
	if _, err := c.Render(ctx, "# x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if _, err := c.RenderInline(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("RenderInline() error = %v, want context.Canceled", err)
	}
}

func TestGoldmarkConverter_ChromaHighlighting(t *testing.T) {
	t.Parallel()

	c := NewGoldmarkConverter(WithChromaHighlighting("github"))
	got, err := c.Render(context.Background(), "```js\nconst a = 1;\n```\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, `class="chroma"`) {
		t.Errorf("Render() = %q, want chroma classes", got)
	}
	if strings.Contains(got, `class="language-js"`) {
		t.Errorf("Render() = %q, code block should already be highlighted", got)
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	if got := normalizeLineEndings("a\r\nb\rc\n"); got != "a\nb\nc\n" {
		t.Errorf("normalizeLineEndings() = %q, want %q", got, "a\nb\nc\n")
	}
}
