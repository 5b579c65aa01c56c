package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/journal/internal/checksum"
	"github.com/starford/journal/internal/index"
)

// Row is one exported entry as stored in the entries table.
type Row struct {
	Path      string
	Namespace string
	Eid       string
	Slug      string
	Title     string
	Date      string
	Year      int
	Checksum  string
}

// Export replaces the catalog contents with every entry of the given
// indexes, in a single transaction. Paths are prefix+permalink, so the last
// entry wins on a collision exactly as it does in the index.
func (db *DB) Export(ctx context.Context, indexes ...*index.Index) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags`); err != nil {
		return 0, fmt.Errorf("catalog: clear tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("catalog: clear entries: %w", err)
	}

	entryStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (path, namespace, eid, slug, title, date, year, unix, image, content, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			namespace = excluded.namespace,
			eid       = excluded.eid,
			slug      = excluded.slug,
			title     = excluded.title,
			date      = excluded.date,
			year      = excluded.year,
			unix      = excluded.unix,
			image     = excluded.image,
			content   = excluded.content,
			checksum  = excluded.checksum
	`)
	if err != nil {
		return 0, fmt.Errorf("catalog: prepare entry insert: %w", err)
	}
	defer entryStmt.Close()

	tagStmt, err := tx.PrepareContext(ctx, `INSERT INTO entry_tags (path, tag, position) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("catalog: prepare tag insert: %w", err)
	}
	defer tagStmt.Close()

	n := 0
	for _, idx := range indexes {
		for _, e := range idx.Entries() {
			path := idx.URL(e)
			if _, err := tx.ExecContext(ctx, `DELETE FROM entry_tags WHERE path = ?`, path); err != nil {
				return 0, fmt.Errorf("catalog: clear tags for %s: %w", path, err)
			}
			if _, err := entryStmt.ExecContext(ctx,
				path, idx.Prefix(), e.Eid, e.Slug, e.Title,
				e.Date.Format(time.RFC3339), e.Year(), e.Date.Unix(), e.Image, e.Content,
				checksum.Entry(e),
			); err != nil {
				return 0, fmt.Errorf("catalog: insert entry %s: %w", path, err)
			}
			for pos, tag := range e.Tags {
				if _, err := tagStmt.ExecContext(ctx, path, tag, pos); err != nil {
					return 0, fmt.Errorf("catalog: insert tag %s: %w", path, err)
				}
			}
			n++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("catalog: commit: %w", err)
	}
	return n, nil
}

// Entries returns every exported row ordered by date, newest first.
func (db *DB) Entries(ctx context.Context) ([]Row, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT path, namespace, eid, slug, title, date, year, checksum
		FROM entries
		ORDER BY unix DESC, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: entries: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Path, &r.Namespace, &r.Eid, &r.Slug, &r.Title, &r.Date, &r.Year, &r.Checksum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Tags returns the tags of the entry at path in their original order.
func (db *DB) Tags(ctx context.Context, path string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT tag FROM entry_tags WHERE path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: tags: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
