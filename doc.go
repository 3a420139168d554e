// Package webber builds a single-page snippet documentation site.
//
// # Quick Start
//
// Create a builder and run it against a snippet repository:
//
//	b, err := webber.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := b.Build(ctx, webber.Input{
//	    SnippetsDir: "snippets",
//	    StaticDir:   "static-parts",
//	    TagSource:   "tag_database",
//	    Output:      "docs/index.html",
//	    Stylesheet:  &webber.Stylesheet{Source: "docs/mini/flavor.scss", Output: "docs/mini.css"},
//	})
//
// # Build Pipeline
//
// A build follows these stages:
//
//  1. Guard: a CI build triggered by the generator's own commit is skipped
//  2. Stylesheet: SCSS compiled with dart-sass, concurrently and non-fatal
//  3. Inputs: snippets, header and footer fragments, tag database
//  4. Assembly: table of contents and snippet cards, code highlighted
//  5. Normalization: adjacent token spans of the same class merged
//  6. Minification via tdewolff/minify
//  7. Anchor check: table of contents links without a target are reported
//  8. Atomic write of the page
//
// # Configuration
//
// Use functional options to customize the builder:
//
//	b, err := webber.NewBuilder(
//	    webber.WithHighlightEngine("chroma"),
//	    webber.WithChromaStyle("monokai"),
//	    webber.WithoutMinify(),
//	)
//
// # Tag Databases
//
// The tag source format is chosen by extension: plain text
// (name:tag1,tag2 per line), YAML, TOML, JSON or SQLite.
package webber
