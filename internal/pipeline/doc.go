// Package pipeline implements the page generation stages.
//
// The stages are plain functions and small structs over strings:
//   - Markdown rendering via Goldmark (fragments and inline text)
//   - Code highlighting into Prism-compatible token spans via chroma
//   - Page assembly: table of contents, category sections, snippet cards
//   - Highlight normalization: merging adjacent same-class token spans
//   - Minification via tdewolff/minify
//   - Outline parsing to verify that every table-of-contents link resolves
//
// Reading inputs and writing outputs is left to the caller; nothing in this
// package touches the filesystem.
package pipeline
