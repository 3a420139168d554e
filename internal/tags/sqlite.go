package tags

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// Schema expected in a SQLite tag database. Entry order follows the first
// row inserted for each name; tags within an entry follow position.
const Schema = `
CREATE TABLE IF NOT EXISTS snippet_tags (
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	tag TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snippet_tags_name ON snippet_tags(name);
`

const selectTags = `
SELECT t.name, t.tag
FROM snippet_tags t
JOIN (SELECT name, MIN(rowid) AS first FROM snippet_tags GROUP BY name) f ON f.name = t.name
ORDER BY f.first, t.position`

func loadSQLite(ctx context.Context, path string) (*Map, error) {
	// sql.Open would silently create a missing database file
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, selectTags)
	if err != nil {
		return nil, fmt.Errorf("query snippet_tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	m := NewMap()
	var current string
	var list []string
	flush := func() {
		if current != "" {
			m.Set(current, list)
		}
	}
	for rows.Next() {
		var name, tag string
		if err := rows.Scan(&name, &tag); err != nil {
			return nil, fmt.Errorf("scan snippet_tags: %w", err)
		}
		if name != current {
			flush()
			current, list = name, nil
		}
		list = append(list, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snippet_tags: %w", err)
	}
	flush()
	return m, nil
}
