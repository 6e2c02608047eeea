// Package forest owns every board of a document and the navigation path
// through them.
//
// Boards live in a flat table. Index 0 is the root board; items refer to
// their child boards by table index. The path is a stack of references whose
// top names the active board.
package forest

import (
	"fmt"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/log"
)

// Root is the table index of the top-level board.
const Root = 0

// Reference is one step of the navigation path. The Source fields name the
// item that was entered, or are None when the step was pushed without one
// (for instance when undo jumps to the board it changes).
type Reference struct {
	Board       int
	SourceBoard int
	SourceList  int
	SourceItem  int
}

func rootReference() Reference {
	return Reference{Board: Root, SourceBoard: board.None, SourceList: board.None, SourceItem: board.None}
}

// Forest is the board table plus the navigation path.
type Forest struct {
	Title  string
	Boards []*board.Board
	Path   []Reference

	// pruned maps a board Pop unlinked to the step it was entered by.
	pruned map[int]Reference
}

// New returns a forest holding a single empty root board.
func New(title string) *Forest {
	return FromBoards(title, []*board.Board{board.New()})
}

// FromBoards builds a forest over an existing table. The first board is the
// root; an empty table gets one.
func FromBoards(title string, boards []*board.Board) *Forest {
	if len(boards) == 0 {
		boards = []*board.Board{board.New()}
	}
	return &Forest{
		Title:  title,
		Boards: boards,
		Path:   []Reference{rootReference()},
	}
}

// ActiveIndex returns the table index of the board on top of the path.
func (f *Forest) ActiveIndex() int {
	return f.Path[len(f.Path)-1].Board
}

// Active returns the board on top of the path.
func (f *Forest) Active() *board.Board {
	return f.Boards[f.ActiveIndex()]
}

// Board returns the board at index i or nil.
func (f *Forest) Board(i int) *board.Board {
	if i < 0 || i >= len(f.Boards) {
		return nil
	}
	return f.Boards[i]
}

// Depth returns how many boards deep the active board is; the root is 0.
func (f *Forest) Depth() int {
	return len(f.Path) - 1
}

// Push enters the child board of the selected item, creating an empty one
// when the item has none. It returns false when nothing is selected.
func (f *Forest) Push() bool {
	from := f.ActiveIndex()
	b := f.Boards[from]
	it := b.CurrentItem()
	if it == nil {
		return false
	}
	list, item := b.Selection()
	if f.Board(it.ChildBoard) == nil {
		f.Boards = append(f.Boards, board.New())
		it.ChildBoard = len(f.Boards) - 1
		log.Debug(log.CatNav, "allocated child board", "board", it.ChildBoard, "parent", from)
	}
	f.Path = append(f.Path, Reference{
		Board:       it.ChildBoard,
		SourceBoard: from,
		SourceList:  list,
		SourceItem:  item,
	})
	log.Debug(log.CatNav, "entered board", "board", it.ChildBoard, "depth", f.Depth())
	return true
}

// Pop leaves the active board. A board left without lists is unlinked from
// the item it was entered from. Pop returns false at the root.
func (f *Forest) Pop() bool {
	if len(f.Path) <= 1 {
		return false
	}
	top := f.Path[len(f.Path)-1]
	f.Path = f.Path[:len(f.Path)-1]

	if popped := f.Board(top.Board); popped != nil && popped.Empty() {
		if it := f.sourceItem(top); it != nil && it.ChildBoard == top.Board {
			it.ChildBoard = board.None
			if f.pruned == nil {
				f.pruned = make(map[int]Reference)
			}
			f.pruned[top.Board] = top
			log.Debug(log.CatNav, "pruned empty board", "board", top.Board)
		}
	}
	return true
}

// PushReference puts ref on top of the path without touching any item.
func (f *Forest) PushReference(ref Reference) {
	f.Path = append(f.Path, ref)
	log.Debug(log.CatNav, "jumped to board", "board", ref.Board, "depth", f.Depth())
}

// Jump puts board idx on top of the path for undo and redo. A board Pop
// pruned is linked back to the item it was entered from, as long as that
// item has not gained another child board since. Jump reports whether idx
// is reachable from the root afterwards; changes to an unreachable board
// are not saved.
func (f *Forest) Jump(idx int) bool {
	ref := Reference{Board: idx, SourceBoard: board.None, SourceList: board.None, SourceItem: board.None}
	reachable := f.reachable(idx)
	if src, ok := f.pruned[idx]; ok && !reachable {
		if it := f.sourceItem(src); it != nil && !it.HasChildBoard() && f.reachable(src.SourceBoard) {
			it.ChildBoard = idx
			ref = src
			reachable = true
			log.Debug(log.CatNav, "relinked pruned board", "board", idx, "parent", src.SourceBoard)
		}
	}
	if reachable {
		delete(f.pruned, idx)
	}
	f.PushReference(ref)
	return reachable
}

// Breadcrumb returns a label per path step, starting with the title.
func (f *Forest) Breadcrumb() []string {
	labels := make([]string, 0, len(f.Path))
	labels = append(labels, f.Title)
	for _, ref := range f.Path[1:] {
		if it := f.sourceItem(ref); it != nil {
			labels = append(labels, it.Text)
			continue
		}
		labels = append(labels, fmt.Sprintf("board %d", ref.Board))
	}
	return labels
}

// Restore replaces the path when every step still leads through the item it
// was recorded from. It reports whether the path was applied.
func (f *Forest) Restore(path []Reference) bool {
	if len(path) == 0 || path[0].Board != Root {
		return false
	}
	for _, ref := range path[1:] {
		if f.Board(ref.Board) == nil {
			return false
		}
		it := f.sourceItem(ref)
		if it == nil || it.ChildBoard != ref.Board {
			return false
		}
	}
	f.Path = append([]Reference(nil), path...)
	return true
}

// Reachable returns the indices of the boards linked from the root, in
// depth-first order.
func (f *Forest) Reachable() []int {
	var out []int
	seen := make(map[int]bool)
	var walk func(int)
	walk = func(i int) {
		b := f.Board(i)
		if b == nil || seen[i] {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, l := range b.Lists {
			for _, it := range l.Items {
				if it.HasChildBoard() {
					walk(it.ChildBoard)
				}
			}
		}
	}
	walk(Root)
	return out
}

func (f *Forest) reachable(idx int) bool {
	for _, i := range f.Reachable() {
		if i == idx {
			return true
		}
	}
	return false
}

func (f *Forest) sourceItem(ref Reference) *board.Item {
	b := f.Board(ref.SourceBoard)
	if b == nil || ref.SourceList < 0 || ref.SourceList >= len(b.Lists) {
		return nil
	}
	l := &b.Lists[ref.SourceList]
	if ref.SourceItem < 0 || ref.SourceItem >= len(l.Items) {
		return nil
	}
	return &l.Items[ref.SourceItem]
}
