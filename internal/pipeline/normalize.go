package pipeline

import "regexp"

// normalizedClasses are the token classes merged by NormalizeHighlights,
// in processing order.
var normalizedClasses = []string{"punctuation", "operator", "keyword"}

type spanMerger struct {
	pattern *regexp.Regexp
	repl    string
}

var spanMergers = func() []spanMerger {
	out := make([]spanMerger, 0, len(normalizedClasses))
	for _, class := range normalizedClasses {
		open := `<span class="token ` + class + `">`
		out = append(out, spanMerger{
			pattern: regexp.MustCompile(regexp.QuoteMeta(open) + `([^<]*)</span>(\s*)` + regexp.QuoteMeta(open) + `([^<]*)</span>`),
			repl:    open + `${1}${2}${3}</span>`,
		})
	}
	return out
}()

// NormalizeHighlights merges adjacent token spans of the same class that are
// separated only by whitespace. Each class is rewritten until a pass leaves
// the page unchanged, so the result is a fixed point.
func NormalizeHighlights(page string) string {
	for _, m := range spanMergers {
		for changed := true; changed; {
			next := m.pattern.ReplaceAllString(page, m.repl)
			changed = next != page
			page = next
		}
	}
	return page
}
