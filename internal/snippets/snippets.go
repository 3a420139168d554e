// Package snippets loads the markdown fragments that make up the site.
package snippets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-webber/internal/fileutil"
)

// Extension is appended to a tag-map name to find its file.
const Extension = ".md"

// ErrReadSnippets indicates the snippet directory could not be read.
var ErrReadSnippets = errors.New("failed to read snippets")

// Set maps snippet file names to raw markdown. It is read-only after Load.
type Set struct {
	files map[string]string
}

// Load reads every regular file directly inside dir.
func Load(dir string) (*Set, error) {
	files, err := fileutil.ReadDirFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadSnippets, err)
	}
	return &Set{files: files}, nil
}

// NewSet builds a Set from an in-memory map, mostly for tests and callers
// that fetch snippets from somewhere other than disk.
func NewSet(files map[string]string) *Set {
	copied := make(map[string]string, len(files))
	for k, v := range files {
		copied[k] = v
	}
	return &Set{files: copied}
}

// Lookup returns the markdown for name, trying name+".md" first and then
// name as a file name.
func (s *Set) Lookup(name string) (string, bool) {
	if content, ok := s.files[name+Extension]; ok {
		return content, true
	}
	content, ok := s.files[name]
	return content, ok
}

// Len returns the number of loaded files.
func (s *Set) Len() int {
	return len(s.files)
}

// Names returns file names sorted case-insensitively.
func (s *Set) Names() []string {
	return fileutil.SortedKeys(s.files)
}

// Untagged lists snippet display names (extension trimmed) for which has
// reports false, in Names order.
func (s *Set) Untagged(has func(name string) bool) []string {
	var out []string
	for _, file := range s.Names() {
		name := strings.TrimSuffix(file, Extension)
		if has(name) || has(file) {
			continue
		}
		out = append(out, name)
	}
	return out
}
