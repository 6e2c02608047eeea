package outline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/forest"
)

const sample = `# Launch
## To Do
- [ ] Task 1
- [x] Task 2 with sub-items
  - SubList
    - [x] Sub-task 1
    - [ ] Sub-task 2
      - Deeper
        - [ ] Leaf
## Done
- [x] Completed Task
`

func TestParse_Sample(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Equal(t, "Launch", f.Title)
	require.Len(t, f.Boards, 3)

	root := f.Board(forest.Root)
	require.Len(t, root.Lists, 2)
	require.Equal(t, "To Do", root.Lists[0].Name)
	require.Equal(t, "Done", root.Lists[1].Name)
	require.Equal(t, 0, root.Current)

	todo := root.Lists[0]
	require.Len(t, todo.Items, 2)
	require.Equal(t, 0, todo.Selected)
	require.Equal(t, "Task 1", todo.Items[0].Text)
	require.False(t, todo.Items[0].Done)
	require.Equal(t, board.None, todo.Items[0].ChildBoard)
	require.Equal(t, "Task 2 with sub-items", todo.Items[1].Text)
	require.True(t, todo.Items[1].Done)

	sub := f.Board(todo.Items[1].ChildBoard)
	require.NotNil(t, sub)
	require.Len(t, sub.Lists, 1)
	require.Equal(t, "SubList", sub.Lists[0].Name)
	require.Len(t, sub.Lists[0].Items, 2)
	require.True(t, sub.Lists[0].Items[0].Done)

	deeper := f.Board(sub.Lists[0].Items[1].ChildBoard)
	require.NotNil(t, deeper)
	require.Equal(t, "Deeper", deeper.Lists[0].Name)
	require.Equal(t, "Leaf", deeper.Lists[0].Items[0].Text)
}

func TestRender_RoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, sample, string(Render(f)))
}

func TestRender_FlattensNewlinesAndSkipsUnreachable(t *testing.T) {
	orphan := board.New(board.NewList("Lost", board.NewItem("gone")))
	it := board.NewItem("two\nlines")
	root := board.New(board.NewList("L", it))
	f := forest.FromBoards("T", []*board.Board{root, orphan})

	require.Equal(t, "# T\n## L\n- [ ] two lines\n", string(Render(f)))
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"item before heading": "- [ ] stray\n## L\n",
		"deep heading":        "## L\n### nope\n",
		"nameless sub list":   "## L\n- [ ] a\n  -\n    - [ ] b\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParse_DefaultTitleAndEmpty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultTitle, f.Title)
	require.True(t, f.Active().Empty())
}

func TestSave_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.md")
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.NoError(t, Save(context.Background(), path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, sample, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_FailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o600))

	err := Save(context.Background(), target, forest.New("T"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.md"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFile_OpenPersistAndDetectChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	doc := NewFile(path)
	ctx := context.Background()

	f, err := doc.Open(ctx)
	require.NoError(t, err, "a missing file is a new document")
	require.Equal(t, DefaultTitle, f.Title)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "nothing is written until the first save")

	f.Active().InsertList(0, board.NewList("Inbox", board.NewItem("first")))
	require.NoError(t, doc.Persist(ctx, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.False(t, doc.ChangedExternally(data))
	require.Equal(t, data, doc.Written())

	require.True(t, doc.ChangedExternally(append(data, "- [ ] added elsewhere\n"...)))

	reopened, err := NewFile(path).Open(ctx)
	require.NoError(t, err)
	require.Equal(t, "first", reopened.Active().Lists[0].Items[0].Text)
}

func TestFile_OpenMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.md")
	require.NoError(t, os.WriteFile(path, []byte("- [ ] orphan\n"), 0o600))

	_, err := NewFile(path).Open(context.Background())
	require.ErrorIs(t, err, ErrMalformed)
}
