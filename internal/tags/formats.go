package tags

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alnah/go-webber/internal/yamlutil"
)

// decodeText parses the tag_database format: one "name:tag1,tag2" per line.
// Blank lines and lines starting with # are skipped. A line without a colon
// names a snippet with no tags.
func decodeText(data []byte) (*Map, error) {
	m := NewMap()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("line %d: empty snippet name", lineNo)
		}
		if !found {
			m.Set(name, nil)
			continue
		}

		parts := strings.Split(rest, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		m.Set(name, parts)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeYAML(data []byte) (*Map, error) {
	items, err := yamlutil.UnmarshalOrdered(data)
	if err != nil {
		return nil, err
	}
	m := NewMap()
	for _, item := range items {
		list, err := toTags(item.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item.Key, err)
		}
		m.Set(item.Key, list)
	}
	return m, nil
}

func decodeTOML(data []byte) (*Map, error) {
	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	m := NewMap()
	for _, key := range meta.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		list, err := toTags(raw[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m.Set(name, list)
	}
	return m, nil
}

// decodeJSON walks the top-level object token by token because
// encoding/json maps do not keep key order.
func decodeJSON(data []byte) (*Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("top-level value is not an object")
	}

	m := NewMap()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		list, err := toTags(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m.Set(name, list)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}
