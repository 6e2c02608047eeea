// Package outline reads and writes the markdown form of a document.
//
//	# Title
//	## List name
//	- [ ] item
//	- [x] done item
//	  - Sub-board list name
//	    - [ ] sub item
//
// Each item may carry a nested list; its entries are the lists of the
// item's child board, and their nested entries are that board's items.
package outline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/tracing"
)

// DefaultTitle names documents that have no title heading.
const DefaultTitle = "Project Name"

// ErrMalformed is returned for markdown that does not describe a document.
var ErrMalformed = errors.New("not a strata document")

var checkbox = regexp.MustCompile(`^\[([\sxX])\]\s*`)

// blockStart lists the characters that can open a block, or a link
// reference definition, at the start of a line. A name beginning with one
// is written with a leading backslash.
const blockStart = "#>-+*=_`~<|[\\"

var (
	orderedMarker        = regexp.MustCompile(`^(\d+)(\\*[.)])`)
	escapedOrderedMarker = regexp.MustCompile(`^(\d+)\\(\\*[.)])`)
)

var tracer = otel.Tracer("github.com/zjrosen/strata/internal/outline")

// Load reads the document at path.
func Load(ctx context.Context, path string) (f *forest.Forest, err error) {
	_, span := tracer.Start(ctx, tracing.SpanLoad)
	span.SetAttributes(attribute.String(tracing.AttrPath, path))
	defer func() { tracing.Finish(span, err) }()

	src, err := os.ReadFile(path) //nolint:gosec // G304: path is the document the user opened
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err = Parse(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrBoards, len(f.Boards)))
	log.Info(log.CatOutline, "loaded document", "path", path, "boards", len(f.Boards))
	return f, nil
}

// Parse builds a forest from markdown source.
func Parse(src []byte) (*forest.Forest, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.TaskList))
	doc := md.Parser().Parse(text.NewReader(src))

	p := &parser{src: src, boards: []*board.Board{board.New()}}
	title := DefaultTitle
	var lists []pendingList

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			name := p.text(node)
			switch node.Level {
			case 1:
				title = unescapeName(name)
			case 2:
				lists = append(lists, pendingList{name: unescapeName(name)})
			default:
				return nil, fmt.Errorf("%w: level %d heading %q", ErrMalformed, node.Level, name)
			}
		case *ast.List:
			if len(lists) == 0 {
				return nil, fmt.Errorf("%w: list item before any list heading", ErrMalformed)
			}
			l := &lists[len(lists)-1]
			items, err := p.items(node)
			if err != nil {
				return nil, err
			}
			l.items = append(l.items, items...)
		default:
			log.Debug(log.CatOutline, "ignored block", "kind", n.Kind().String())
		}
	}

	root := make([]board.List, len(lists))
	for i, l := range lists {
		root[i] = board.NewList(l.name, l.items...)
	}
	p.boards[forest.Root] = board.New(root...)
	return forest.FromBoards(title, p.boards), nil
}

type pendingList struct {
	name  string
	items []board.Item
}

type parser struct {
	src    []byte
	boards []*board.Board
}

func (p *parser) items(l *ast.List) ([]board.Item, error) {
	var out []board.Item
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		it, err := p.item(li)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

// item converts a task entry and materialises its child board, if any.
func (p *parser) item(li ast.Node) (board.Item, error) {
	block := li.FirstChild()
	if block == nil || !isTextBlock(block) {
		return board.Item{}, fmt.Errorf("%w: empty list entry", ErrMalformed)
	}

	raw := p.text(block)
	it := board.NewItem(checkbox.ReplaceAllString(raw, ""))
	if cb, ok := block.FirstChild().(*extast.TaskCheckBox); ok {
		it.Done = cb.IsChecked
	} else if m := checkbox.FindStringSubmatch(raw); m != nil {
		it.Done = m[1] == "x" || m[1] == "X"
	}

	if sub, ok := block.NextSibling().(*ast.List); ok {
		idx, err := p.childBoard(sub)
		if err != nil {
			return board.Item{}, err
		}
		it.ChildBoard = idx
	}
	return it, nil
}

// childBoard appends a board built from a nested list and returns its index.
func (p *parser) childBoard(nested *ast.List) (int, error) {
	idx := len(p.boards)
	p.boards = append(p.boards, nil)

	var lists []board.List
	for entry := nested.FirstChild(); entry != nil; entry = entry.NextSibling() {
		block := entry.FirstChild()
		if block == nil || !isTextBlock(block) {
			return 0, fmt.Errorf("%w: nested list entry without a name", ErrMalformed)
		}
		name := unescapeName(checkbox.ReplaceAllString(p.text(block), ""))
		var items []board.Item
		if nestedItems, ok := block.NextSibling().(*ast.List); ok {
			var err error
			if items, err = p.items(nestedItems); err != nil {
				return 0, err
			}
		}
		lists = append(lists, board.NewList(name, items...))
	}

	p.boards[idx] = board.New(lists...)
	return idx, nil
}

// text joins the raw source lines of a block into one line.
func (p *parser) text(n ast.Node) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if s := string(bytes.TrimSpace(seg.Value(p.src))); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func isTextBlock(n ast.Node) bool {
	switch n.(type) {
	case *ast.TextBlock, *ast.Paragraph:
		return true
	}
	return false
}

// unescapeName reverses escapeName.
func unescapeName(s string) string {
	if len(s) > 1 && s[0] == '\\' && strings.IndexByte(blockStart, s[1]) >= 0 {
		return s[1:]
	}
	return escapedOrderedMarker.ReplaceAllString(s, "${1}${2}")
}
