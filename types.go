package webber

import (
	"fmt"
	"time"

	"github.com/alnah/go-webber/internal/assets"
)

// Input locates the inputs and outputs of one build.
type Input struct {
	SnippetsDir string
	StaticDir   string
	HeaderName  string // Empty = index-start.html
	FooterName  string // Empty = index-end.html
	TagSource   string
	Output      string
	Stylesheet  *Stylesheet // nil = no stylesheet build
}

// Stylesheet locates the SCSS source and its compiled output.
type Stylesheet struct {
	Source string
	Output string
}

// Validate checks that every required path is set.
func (in *Input) Validate() error {
	required := []struct{ field, value string }{
		{"SnippetsDir", in.SnippetsDir},
		{"StaticDir", in.StaticDir},
		{"TagSource", in.TagSource},
		{"Output", in.Output},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrEmptyInput, r.field)
		}
	}
	if in.Stylesheet != nil && (in.Stylesheet.Source == "" || in.Stylesheet.Output == "") {
		return fmt.Errorf("%w: Stylesheet", ErrEmptyInput)
	}
	return nil
}

// HeaderFile returns the header fragment name, defaulting to index-start.html.
func (in *Input) HeaderFile() string {
	if in.HeaderName == "" {
		return assets.DefaultHeaderName
	}
	return in.HeaderName
}

// FooterFile returns the footer fragment name, defaulting to index-end.html.
func (in *Input) FooterFile() string {
	if in.FooterName == "" {
		return assets.DefaultFooterName
	}
	return in.FooterName
}

// StylesheetResult reports the stylesheet build.
type StylesheetResult struct {
	Attempted bool
	Path      string
	Err       error
}

// Result reports what a build did. Warnings never fail a build.
type Result struct {
	// Skipped is set when the guard stopped the build; nothing was written.
	Skipped    bool
	SkipReason string
	// SkipCommit is the commit message the guard matched.
	SkipCommit string

	OutputPath string
	Bytes      int
	Snippets   int
	TagEntries int
	Categories int

	Stylesheet StylesheetResult

	// Untagged lists loaded snippets without a tag entry; they are not on the page.
	Untagged []string
	// DanglingLinks lists table of contents targets with no matching id.
	DanglingLinks []string

	Duration time.Duration
}
