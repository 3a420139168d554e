package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-webber/internal/snippets"
	"github.com/alnah/go-webber/internal/tags"
)

// Sentinel errors for page assembly.
var (
	ErrMissingSnippet = errors.New("tagged snippet not found")
	ErrRender         = errors.New("snippet rendering failed")
)

// DefaultLanguage is the fence language highlighted when none is configured.
const DefaultLanguage = "js"

// Fixed markup around the generated sections.
const (
	mainOpen  = `</nav><main class="col-sm-12 col-md-8 col-lg-9" style="height: 100%;overflow-y: auto; background: #eceef2; padding: 0;">`
	topAnchor = `<a id="top">&nbsp;</a>`
	cardOpen  = `<div class="card fluid">`
	cardClose = `<button class="primary clipboard-copy">&#128203;&nbsp;Copy to clipboard</button></div></div>`

	sectionClass  = `class="section double-padded"`
	sectionOpen   = `<div class="section double-padded">`
	advancedBadge = `<mark class="tag">advanced</mark>`
	showExamples  = `</pre><label class="collapse">Show examples</label><pre`
)

var (
	consecutivePre = regexp.MustCompile(`</pre>\s+<pre`)
	h2Open         = regexp.MustCompile(`<h2>`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#39;", "'",
	"&quot;", `"`,
)

// Page holds everything the assembler reads.
type Page struct {
	Header   string
	Footer   string
	Snippets *snippets.Set
	Tags     *tags.Map
}

// Assembler turns a Page into the unminified HTML document.
type Assembler struct {
	renderer    Renderer
	highlighter Highlighter
	language    string
	codeBlock   *regexp.Regexp
}

// NewAssembler creates an Assembler. Fenced blocks tagged with language are
// passed through highlighter; a nil highlighter leaves them as rendered.
func NewAssembler(renderer Renderer, highlighter Highlighter, language string) *Assembler {
	if language == "" {
		language = DefaultLanguage
	}
	return &Assembler{
		renderer:    renderer,
		highlighter: highlighter,
		language:    language,
		codeBlock: regexp.MustCompile(
			`(?s)<pre><code class="language-` + regexp.QuoteMeta(language) + `">(.*?)</code></pre>`,
		),
	}
}

// Assemble builds the page: header, table of contents, main marker, body
// and footer.
func (a *Assembler) Assemble(ctx context.Context, page Page) (string, error) {
	tagMap := page.Tags
	if tagMap == nil {
		tagMap = tags.NewMap()
	}
	categories := tagMap.Categories()

	toc, err := a.TOC(ctx, tagMap, categories)
	if err != nil {
		return "", err
	}
	body, err := a.Body(ctx, page.Snippets, tagMap, categories)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(page.Header) + len(toc) + len(body) + len(page.Footer) + len(mainOpen) + 64)
	b.WriteString(page.Header)
	b.WriteString("\n")
	b.WriteString(toc)
	b.WriteString(mainOpen)
	b.WriteString(topAnchor)
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(page.Footer)
	b.WriteString("\n")
	return b.String(), nil
}

// TOC renders the navigation: one heading per category followed by a link
// per snippet in that category.
func (a *Assembler) TOC(ctx context.Context, tagMap *tags.Map, categories []string) (string, error) {
	var b strings.Builder
	for _, category := range categories {
		label, err := a.renderer.RenderInline(ctx, tags.Label(category)+"\n")
		if err != nil {
			return "", fmt.Errorf("%w: category %q: %w", ErrRender, category, err)
		}
		b.WriteString("<h3>")
		b.WriteString(label)
		b.WriteString("</h3>")

		for _, entry := range tagMap.InCategory(category) {
			link, err := a.renderer.RenderInline(ctx, "["+entry.Name+"](#"+Anchor(entry.Name)+")\n")
			if err != nil {
				return "", fmt.Errorf("%w: link %q: %w", ErrRender, entry.Name, err)
			}
			attrs := `<a class="sublink-1" tags="` + html.EscapeString(strings.Join(entry.Tags, ",")) + `"`
			b.WriteString(strings.ReplaceAll(link, "<a", attrs))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Body renders one centered section heading per category and a card per
// snippet in that category.
func (a *Assembler) Body(ctx context.Context, set *snippets.Set, tagMap *tags.Map, categories []string) (string, error) {
	if set == nil {
		set = snippets.NewSet(nil)
	}

	var b strings.Builder
	for _, category := range categories {
		heading, err := a.renderer.Render(ctx, "## "+tags.Label(category)+"\n")
		if err != nil {
			return "", fmt.Errorf("%w: category %q: %w", ErrRender, category, err)
		}
		b.WriteString(h2Open.ReplaceAllLiteralString(heading, `<h2 style="text-align:center;">`))

		for _, entry := range tagMap.InCategory(category) {
			source, ok := set.Lookup(entry.Name)
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrMissingSnippet, entry.Name)
			}
			card, err := a.Card(ctx, entry, source)
			if err != nil {
				return "", err
			}
			b.WriteString(card)
		}
	}
	return b.String(), nil
}

// Card renders a single snippet into its card container.
func (a *Assembler) Card(ctx context.Context, entry tags.Entry, source string) (string, error) {
	rendered, err := a.renderer.Render(ctx, "\n"+source)
	if err != nil {
		return "", fmt.Errorf("%w: snippet %q: %w", ErrRender, entry.Name, err)
	}

	if !strings.Contains(rendered, "<h3") {
		rendered = "<h3>" + html.EscapeString(entry.Name) + "</h3>\n" + rendered
	}
	rendered = decorateHeading(rendered, entry)

	rendered, err = a.highlightBlocks(rendered)
	if err != nil {
		return "", fmt.Errorf("%w: snippet %q: %w", ErrRender, entry.Name, err)
	}
	rendered = consecutivePre.ReplaceAllLiteralString(rendered, showExamples)

	return cardOpen + rendered + cardClose, nil
}

// decorateHeading adds the anchor id to the first <h3, the advanced badge
// before its closing tag, and opens the card section right after it.
func decorateHeading(rendered string, entry tags.Entry) string {
	open := strings.Index(rendered, "<h3")
	if open < 0 {
		return rendered
	}
	closeRel := strings.Index(rendered[open:], "</h3>")
	if closeRel < 0 {
		return rendered
	}
	end := open + closeRel

	var badge string
	if entry.Has(tags.FlagAdvanced) {
		badge = advancedBadge
	}

	var b strings.Builder
	b.Grow(len(rendered) + 128)
	b.WriteString(rendered[:open])
	b.WriteString(`<h3 id="` + html.EscapeString(Anchor(entry.Name)) + `" ` + sectionClass)
	b.WriteString(rendered[open+len("<h3") : end])
	b.WriteString(badge)
	b.WriteString("</h3>")
	b.WriteString(sectionOpen)
	b.WriteString(rendered[end+len("</h3>"):])
	return b.String()
}

// highlightBlocks replaces every code block of the configured language with
// a highlighted <pre class="language-X">.
func (a *Assembler) highlightBlocks(rendered string) (string, error) {
	if a.highlighter == nil {
		return rendered, nil
	}

	var firstErr error
	out := a.codeBlock.ReplaceAllStringFunc(rendered, func(match string) string {
		if firstErr != nil {
			return match
		}
		code := a.codeBlock.FindStringSubmatch(match)[1]
		highlighted, err := a.highlighter.Highlight(entityReplacer.Replace(code))
		if err != nil {
			firstErr = err
			return match
		}
		return `<pre class="language-` + a.language + `">` + highlighted + `</pre>`
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// Anchor is the fragment identifier of a snippet card.
func Anchor(name string) string {
	return strings.ToLower(name)
}
