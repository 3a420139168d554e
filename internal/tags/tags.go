// Package tags holds the snippet taxonomy: an ordered mapping from snippet
// name to its tags. The first tag is the primary category; the remaining
// ones are flags rendered as badges or used for filtering.
package tags

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Well-known tag values.
const (
	Uncategorized = "Uncategorized"
	FlagAdvanced  = "advanced"
)

// Entry is one snippet and its tags, primary first.
type Entry struct {
	Name string
	Tags []string
}

// Primary returns the first tag, or "" when there is none.
func (e Entry) Primary() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// Has reports whether tag appears anywhere in the list.
func (e Entry) Has(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Map is an insertion-ordered snippet name → tags mapping.
// The zero value is ready to use.
type Map struct {
	entries []Entry
	index   map[string]int
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set stores tags for name. Re-setting a name replaces its tags in place,
// so the name keeps the position of its first appearance.
func (m *Map) Set(name string, tags []string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	copied := append([]string(nil), tags...)
	if i, ok := m.index[name]; ok {
		m.entries[i].Tags = copied
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Tags: copied})
}

// Has reports whether name has an entry.
func (m *Map) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Categories returns the distinct non-empty primary tags, sorted with an
// English collator. A tag whose label is "Uncategorized" always sorts last.
func (m *Map) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range m.entries {
		p := e.Primary()
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}

	col := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		if Label(out[i]) == Uncategorized {
			return false
		}
		if Label(out[j]) == Uncategorized {
			return true
		}
		return col.CompareString(out[i], out[j]) < 0
	})
	return out
}

// InCategory returns the entries whose primary tag equals tag exactly,
// in insertion order.
func (m *Map) InCategory(tag string) []Entry {
	var out []Entry
	for _, e := range m.entries {
		if e.Primary() == tag {
			out = append(out, e)
		}
	}
	return out
}

// Label is the display form of a tag: first rune upper-cased, rest lower-cased.
func Label(tag string) string {
	if tag == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(tag)
	return cases.Upper(language.Und).String(tag[:size]) + cases.Lower(language.Und).String(tag[size:])
}
