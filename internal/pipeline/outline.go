package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParseOutline indicates the page is not parseable HTML.
var ErrParseOutline = errors.New("failed to parse page outline")

// Outline is what a reader of the page can navigate: element ids, in-page
// link targets and the visible text.
type Outline struct {
	IDs   map[string]bool
	Links []string
	Text  string
}

// ParseOutline parses page and collects its outline. Script and style
// contents are not part of the text; runs of whitespace collapse to a space.
func ParseOutline(page string) (*Outline, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseOutline, err)
	}

	o := &Outline{IDs: make(map[string]bool)}
	var text strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			for _, attr := range n.Attr {
				switch {
				case attr.Key == "id" && attr.Val != "":
					o.IDs[attr.Val] = true
				case attr.Key == "href" && n.DataAtom == atom.A && strings.HasPrefix(attr.Val, "#") && len(attr.Val) > 1:
					o.Links = append(o.Links, attr.Val[1:])
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	o.Text = strings.Join(strings.Fields(text.String()), " ")
	return o, nil
}

// DanglingLinks returns in-page link targets with no matching id, in
// document order and without duplicates.
func (o *Outline) DanglingLinks() []string {
	seen := make(map[string]bool)
	var out []string
	for _, target := range o.Links {
		if o.IDs[target] || seen[target] {
			continue
		}
		seen[target] = true
		out = append(out, target)
	}
	return out
}
