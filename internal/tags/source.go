package tags

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for tag loading.
var (
	ErrLoadTags          = errors.New("failed to load tag data")
	ErrUnsupportedSource = errors.New("unsupported tag source")
)

// decoder turns raw bytes into a Map.
type decoder func(data []byte) (*Map, error)

var decoders = map[string]decoder{
	"":      decodeText,
	".txt":  decodeText,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".toml": decodeTOML,
	".json": decodeJSON,
}

var databaseExtensions = map[string]bool{
	".db":      true,
	".sqlite":  true,
	".sqlite3": true,
}

// SupportedExtensions lists the accepted source extensions ("" is the
// plain tag_database format).
func SupportedExtensions() []string {
	return []string{`"" (tag_database)`, ".txt", ".yaml", ".yml", ".toml", ".json", ".db", ".sqlite", ".sqlite3"}
}

// Load reads the tag source at path, choosing the format from its extension.
func Load(ctx context.Context, path string) (*Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if databaseExtensions[ext] {
		m, err := loadSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadTags, err)
		}
		return m, nil
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, ext)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- tag source is configured by the site owner
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadTags, err)
	}

	m, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadTags, filepath.Base(path), err)
	}
	return m, nil
}

// toTags normalizes a decoded value into a tag list.
// A scalar is a single tag, nil is no tags, nil list items are empty tags.
func toTags(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{strings.TrimSpace(v)}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case nil:
				out = append(out, "")
			case string:
				out = append(out, strings.TrimSpace(s))
			case bool, int, int64, uint64, float64:
				out = append(out, fmt.Sprint(s))
			default:
				return nil, fmt.Errorf("unexpected tag of type %T", item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected tag list of type %T", value)
	}
}
