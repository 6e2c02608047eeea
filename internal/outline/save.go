package outline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/tracing"
)

// Render serialises the boards reachable from the root.
func Render(f *forest.Forest) []byte {
	var buf bytes.Buffer
	buf.WriteString(heading(1, f.Title))

	root := f.Board(forest.Root)
	if root == nil {
		return buf.Bytes()
	}
	seen := map[int]bool{forest.Root: true}
	for _, l := range root.Lists {
		buf.WriteString(heading(2, l.Name))
		for _, it := range l.Items {
			fmt.Fprintf(&buf, "- %s %s\n", mark(it.Done), flatten(it.Text))
			if it.HasChildBoard() {
				writeBoard(&buf, f, it.ChildBoard, 1, seen)
			}
		}
	}
	return buf.Bytes()
}

// writeBoard writes a child board as nested entries. List names sit at
// level*2 spaces and items two deeper.
func writeBoard(buf *bytes.Buffer, f *forest.Forest, idx, level int, seen map[int]bool) {
	b := f.Board(idx)
	if b == nil || seen[idx] {
		return
	}
	seen[idx] = true

	indent := strings.Repeat(" ", level*2)
	for _, l := range b.Lists {
		fmt.Fprintf(buf, "%s- %s\n", indent, escapeName(l.Name))
		for _, it := range l.Items {
			fmt.Fprintf(buf, "%s  - %s %s\n", indent, mark(it.Done), flatten(it.Text))
			if it.HasChildBoard() {
				writeBoard(buf, f, it.ChildBoard, level+2, seen)
			}
		}
	}
}

func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// escapeName flattens a title or list name so it reads back as plain text.
// A leading block marker gets a backslash, as does the dot or paren of an
// ordered list marker.
func escapeName(s string) string {
	s = strings.TrimSpace(flatten(s))
	switch {
	case s == "":
		return s
	case strings.IndexByte(blockStart, s[0]) >= 0:
		return `\` + s
	default:
		return orderedMarker.ReplaceAllString(s, `${1}\${2}`)
	}
}

// heading writes an ATX heading. A name ending in a run of '#' after a space
// gets an explicit closing sequence so the parser strips that one instead.
func heading(level int, name string) string {
	marks := strings.Repeat("#", level)
	s := escapeName(name)
	if trimmed := strings.TrimRight(s, "#"); trimmed != s && strings.HasSuffix(trimmed, " ") {
		s += " " + marks
	}
	return marks + " " + s + "\n"
}

// Save writes f to path atomically. On failure the previous file is left
// untouched and no temporary file remains.
func Save(ctx context.Context, path string, f *forest.Forest) error {
	_, err := save(ctx, path, f)
	return err
}

func save(ctx context.Context, path string, f *forest.Forest) (data []byte, err error) {
	_, span := tracer.Start(ctx, tracing.SpanSave)
	span.SetAttributes(attribute.String(tracing.AttrPath, path))
	defer func() { tracing.Finish(span, err) }()

	data = Render(f)
	span.SetAttributes(attribute.Int(tracing.AttrBytes, len(data)))

	if err := writeAtomic(path, data); err != nil {
		return nil, fmt.Errorf("save %s: %w", path, err)
	}
	log.Debug(log.CatOutline, "saved document", "path", path, "bytes", len(data))
	return data, nil
}

func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// File is a document on disk. It remembers the bytes it last wrote so that
// changes made by other programs can be told apart from its own saves.
type File struct {
	path string

	mu      sync.Mutex
	written []byte
}

// NewFile returns a handle for the document at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the document path.
func (d *File) Path() string { return d.path }

// Open loads the document. A missing file yields an empty document that is
// created on the first save.
func (d *File) Open(ctx context.Context) (*forest.Forest, error) {
	f, err := Load(ctx, d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info(log.CatOutline, "new document", "path", d.path)
			return forest.New(DefaultTitle), nil
		}
		return nil, err
	}
	if data, readErr := os.ReadFile(d.path); readErr == nil { //nolint:gosec // G304: same document path
		d.remember(data)
	}
	return f, nil
}

// Persist saves f and records what was written.
func (d *File) Persist(ctx context.Context, f *forest.Forest) error {
	data, err := save(ctx, d.path, f)
	if err != nil {
		return err
	}
	d.remember(data)
	return nil
}

// ChangedExternally reports whether data differs from the last bytes this
// handle read or wrote.
func (d *File) ChangedExternally(data []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !bytes.Equal(d.written, data)
}

// Written returns a copy of the last bytes read or written.
func (d *File) Written() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.written...)
}

func (d *File) remember(data []byte) {
	d.mu.Lock()
	d.written = data
	d.mu.Unlock()
}
