// Package boardview renders one board as side-by-side columns.
package boardview

import (
	"fmt"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/editline"
	"github.com/zjrosen/strata/internal/search"
	"github.com/zjrosen/strata/internal/ui/styles"
)

const (
	minColumnWidth = 20
	// fringe cell, a space before the text and a gap after it
	columnChrome = 3
	fringeGlyph  = "▍"
	emptyHint    = "This board is empty. Press ctrl+o to add a list or esc to go back."
)

// EditTarget says which text carries the cursor.
type EditTarget int

const (
	EditNone EditTarget = iota
	EditTitle
	EditItem
)

// Frame is everything one render needs.
type Frame struct {
	Board      *board.Board
	Breadcrumb []string
	// View is non-nil while searching. The board's selection then holds
	// view indices.
	View   *search.View
	Edit   EditTarget
	Cursor int
	Width  int
	Height int
}

// Options are the configured rendering choices.
type Options struct {
	Theme            styles.Theme
	DimTrailingItems bool
	PathSeparator    string
}

var renderers atomic.Int64

// Renderer draws frames. It caches wrapped layouts between calls.
type Renderer struct {
	opts   Options
	zones  string
	layout *layoutCache
}

// New returns a renderer.
func New(opts Options) *Renderer {
	if opts.PathSeparator == "" {
		opts.PathSeparator = " 〉 "
	}
	return &Renderer{opts: opts, zones: fmt.Sprintf("bv%d-", renderers.Add(1)), layout: newLayoutCache()}
}

// SetDimTrailingItems switches trailing item dimming.
func (r *Renderer) SetDimTrailingItems(dim bool) {
	r.opts.DimTrailingItems = dim
}

// DimTrailingItems reports whether trailing items are dimmed.
func (r *Renderer) DimTrailingItems() bool {
	return r.opts.DimTrailingItems
}

func (r *Renderer) itemZone(list, item int) string {
	return fmt.Sprintf("%sitem-%d-%d", r.zones, list, item)
}

func (r *Renderer) listZone(list int) string {
	return fmt.Sprintf("%slist-%d", r.zones, list)
}

// Render draws the breadcrumb line and the visible columns. It records each
// list's text width in List.Width so editing wraps the same way.
func (r *Renderer) Render(f Frame) string {
	width := max(f.Width, minColumnWidth)
	crumb := strings.Join(f.Breadcrumb, r.opts.PathSeparator)
	header := r.opts.Theme.Breadcrumb.Render(truncate.StringWithTail(crumb, uint(width), "…"))

	b := f.Board
	if b == nil || b.Empty() {
		hint := styles.HintStyle.Render(wordwrap.String(emptyHint, width))
		return lipgloss.JoinVertical(lipgloss.Left, header, "", hint)
	}

	first, count := window(len(b.Lists), b.Current, width)
	colWidth := width / count
	for i := range b.Lists {
		b.Lists[i].Width = colWidth - columnChrome
	}

	bodyHeight := max(f.Height-2, 1)
	cols := make([]string, 0, count)
	for li := first; li < first+count; li++ {
		cols = append(cols, r.column(f, li, colWidth, bodyHeight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

// window picks the lists that fit, keeping the current one in view.
func window(lists, current, width int) (first, count int) {
	count = min(max(width/minColumnWidth, 1), lists)
	if current >= count {
		first = current - count + 1
	}
	return first, count
}

type itemRow struct {
	actual int
	lines  []string
}

func (r *Renderer) column(f Frame, li, colWidth, height int) string {
	th := r.opts.Theme
	l := &f.Board.Lists[li]
	textWidth := colWidth - columnChrome
	active := li == f.Board.Current

	headerStyle := th.Header
	if active {
		headerStyle = th.ActiveHeader
	}
	var headerLines []string
	if active && f.Edit == EditTitle {
		headerLines = r.withCursor(l.Name, textWidth, f.Cursor, headerStyle)
	} else {
		headerLines = []string{headerStyle.Render(truncate.StringWithTail(l.Name, uint(colWidth-1), "…"))}
	}
	head := zone.Mark(r.listZone(li), strings.Join(headerLines, "\n"))

	selected := board.None
	if active {
		selected = l.Selected
	}

	var rows []itemRow
	selStart, selEnd, total := 0, 0, 0
	visit := func(pos, actual int) {
		it := &l.Items[actual]
		isSel := pos == selected
		lines := r.item(it, actual, textWidth, isSel, isSel && f.Edit == EditItem, f.Cursor)
		if isSel {
			selStart, selEnd = total, total+len(lines)
		}
		total += len(lines)
		rows = append(rows, itemRow{actual: actual, lines: lines})
	}
	if f.View != nil {
		for _, e := range f.View.Visible(li) {
			visit(e.View, e.Actual)
		}
	} else {
		for i := range l.Items {
			visit(i, i)
		}
	}

	avail := max(height-len(headerLines)-1, 1)
	skip := 0
	if total > avail && selEnd > avail {
		skip = selEnd - avail
		if selStart < skip {
			skip = selStart
		}
	}

	var body []string
	seen := 0
	for _, row := range rows {
		var kept []string
		for _, line := range row.lines {
			if seen >= skip && seen < skip+avail {
				kept = append(kept, line)
			}
			seen++
		}
		if len(kept) > 0 {
			body = append(body, zone.Mark(r.itemZone(li, row.actual), strings.Join(kept, "\n")))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{head, ""}, body...)...)
	return lipgloss.NewStyle().Width(colWidth).Render(content)
}

// item renders one item as one or more rows of exactly width+2 cells.
func (r *Renderer) item(it *board.Item, index, width int, selected, editing bool, cursor int) []string {
	th := r.opts.Theme
	base := th.Item
	if r.opts.DimTrailingItems && index > 0 {
		base = th.Trailing.Inherit(base)
	}
	if it.Done {
		base = th.Done.Inherit(base)
	}
	if selected {
		base = th.Selected.Inherit(base)
	}

	fringe := th.FringeOff.Render(fringeGlyph)
	if it.HasChildBoard() {
		fringe = th.FringeOn.Render(fringeGlyph)
	}

	var lines []string
	if editing {
		lines = r.withCursor(it.Text, width, cursor, base)
	} else {
		for _, row := range r.layout.wrap(it.Text, width) {
			lines = append(lines, r.highlight(row, base))
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		pad := max(width+1-ansi.StringWidth(line), 0)
		out[i] = fringe + base.Render(" ") + line + base.Render(strings.Repeat(" ", pad))
	}
	return out
}

// highlight styles #tags within one wrapped row.
func (r *Renderer) highlight(row string, base lipgloss.Style) string {
	th := r.opts.Theme
	words := strings.Split(row, " ")
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteString(base.Render(" "))
		}
		if len(w) > 1 && w[0] == '#' {
			sb.WriteString(th.TagHashsign.Inherit(base).Render("#"))
			sb.WriteString(th.Tag.Inherit(base).Render(w[1:]))
			continue
		}
		if w != "" {
			sb.WriteString(base.Render(w))
		}
	}
	return sb.String()
}

// withCursor wraps text and draws a reversed cell at the cursor.
func (r *Renderer) withCursor(text string, width, cursor int, base lipgloss.Style) []string {
	rows := editline.Wrap(text, width)
	ctl := editline.Controller{Cursor: cursor}
	cr, cc := ctl.Position(text, width)

	out := make([]string, len(rows))
	for i, row := range rows {
		if i != cr {
			out[i] = base.Render(row)
			continue
		}
		left := ansi.Truncate(row, cc, "")
		rest := ansi.TruncateLeft(row, cc, "")
		under, after, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
		if under == "" {
			under = " "
		}
		out[i] = base.Render(left) + base.Reverse(true).Render(under) + base.Render(after)
	}
	return out
}

// Hit returns the list and item under a mouse event. item is None when the
// list header was hit. With a search view active, item is the actual index.
func (r *Renderer) Hit(b *board.Board, msg tea.MouseMsg) (list, item int, ok bool) {
	if b == nil {
		return board.None, board.None, false
	}
	for li := range b.Lists {
		if z := zone.Get(r.listZone(li)); z != nil && z.InBounds(msg) {
			return li, board.None, true
		}
		for ii := range b.Lists[li].Items {
			if z := zone.Get(r.itemZone(li, ii)); z != nil && z.InBounds(msg) {
				return li, ii, true
			}
		}
	}
	return board.None, board.None, false
}
