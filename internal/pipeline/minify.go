package pipeline

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// ErrMinify indicates the page could not be minified.
var ErrMinify = errors.New("minification failed")

// Media types handled by HTMLMinifier.
const (
	mediaHTML = "text/html"
	mediaCSS  = "text/css"
)

var scriptMediaType = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)

// HTMLMinifier compacts HTML with its inline styles and scripts.
// Comments are dropped and whitespace collapsed. Special (conditional)
// comments, attribute quotes, default attribute values, end tags and
// document tags are kept.
type HTMLMinifier struct {
	m *minify.M
}

// NewHTMLMinifier creates a ready-to-use minifier. It is safe for
// concurrent use.
func NewHTMLMinifier() *HTMLMinifier {
	m := minify.New()
	m.Add(mediaHTML, &html.Minifier{
		KeepSpecialComments: true,
		KeepDefaultAttrVals: true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
	})
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFuncRegexp(scriptMediaType, js.Minify)
	return &HTMLMinifier{m: m}
}

// Minify returns the minified page.
func (h *HTMLMinifier) Minify(page string) (string, error) {
	out, err := h.m.String(mediaHTML, page)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}

// MinifyCSS returns minified CSS, used for theme rules appended to the
// compiled stylesheet.
func (h *HTMLMinifier) MinifyCSS(stylesheet string) (string, error) {
	out, err := h.m.String(mediaCSS, stylesheet)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMinify, err)
	}
	return out, nil
}
