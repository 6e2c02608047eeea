// Package viewstate remembers, per document, which board was open and what
// was selected on it, so a later session can resume there.
package viewstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/log"
)

// ErrNotFound is returned when no view is stored for a document.
var ErrNotFound = errors.New("viewstate: not found")

// View is the navigation path plus the selection on the board at its top.
type View struct {
	Path      []forest.Reference
	List      int
	Item      int
	UpdatedAt time.Time
}

// Capture records the forest's current path and active selection.
func Capture(f *forest.Forest) View {
	list, item := f.Active().Selection()
	return View{
		Path: append([]forest.Reference(nil), f.Path...),
		List: list,
		Item: item,
	}
}

// Apply restores v onto f. The path is only applied when every step still
// leads through the item it was recorded from; the selection is clamped.
func Apply(f *forest.Forest, v View) bool {
	if !f.Restore(v.Path) {
		return false
	}
	f.Active().Select(v.List, v.Item)
	return true
}

// Store persists views in SQLite.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path and applies
// migrations. An existing database is copied to path+".bak" first.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := backup(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("backing up state: %w", err)
		}
	}

	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(wal)")
	dsn := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: q.Encode()}).String()

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening state: %w", err)
	}
	if err := migrateUp(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatState, "state opened", "path", path)
	return &Store{conn: conn}, nil
}

func backup(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: state path from config
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: derived from state path
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Close releases the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save stores v for the document at doc, replacing any earlier view.
func (s *Store) Save(ctx context.Context, doc string, v View) error {
	updated := v.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving view: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (path, list, item, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET list = excluded.list, item = excluded.item, updated_at = excluded.updated_at`,
		doc, v.List, v.Item, updated.Unix(),
	); err != nil {
		return fmt.Errorf("saving view: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM path_steps WHERE document = ?`, doc); err != nil {
		return fmt.Errorf("saving view: %w", err)
	}
	for depth, ref := range v.Path {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO path_steps (document, depth, board, source_board, source_list, source_item)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			doc, depth, ref.Board, ref.SourceBoard, ref.SourceList, ref.SourceItem,
		); err != nil {
			return fmt.Errorf("saving view: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving view: %w", err)
	}

	log.Debug(log.CatState, "view saved", "document", doc, "depth", len(v.Path))
	return nil
}

// Load returns the view stored for doc, or ErrNotFound.
func (s *Store) Load(ctx context.Context, doc string) (View, error) {
	var (
		v       View
		updated int64
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT list, item, updated_at FROM documents WHERE path = ?`, doc,
	).Scan(&v.List, &v.Item, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return View{}, ErrNotFound
	}
	if err != nil {
		return View{}, fmt.Errorf("loading view: %w", err)
	}
	v.UpdatedAt = time.Unix(updated, 0)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT board, source_board, source_list, source_item FROM path_steps
		 WHERE document = ? ORDER BY depth`, doc)
	if err != nil {
		return View{}, fmt.Errorf("loading view: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ref forest.Reference
		if err := rows.Scan(&ref.Board, &ref.SourceBoard, &ref.SourceList, &ref.SourceItem); err != nil {
			return View{}, fmt.Errorf("loading view: %w", err)
		}
		v.Path = append(v.Path, ref)
	}
	if err := rows.Err(); err != nil {
		return View{}, fmt.Errorf("loading view: %w", err)
	}
	return v, nil
}

// Delete forgets the view for doc. Deleting an unknown document is not an error.
func (s *Store) Delete(ctx context.Context, doc string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, doc); err != nil {
		return fmt.Errorf("deleting view: %w", err)
	}
	return nil
}
