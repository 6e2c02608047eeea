package log

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	Info(CatHistory, "committed", "command", "add_item", "board", 2)
	Warn(CatOutline, "odd", "orphan")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "[INFO] [history] committed command=add_item board=2")
	require.Contains(t, lines[1], "[WARN] [outline] odd orphan=<missing>")
}

func TestLog_MinLevelAndDisable(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	SetMinLevel(LevelWarn)
	Debug(CatUI, "hidden")
	Info(CatUI, "hidden")
	Error(CatUI, "shown")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))

	SetEnabled(false)
	ErrorErr(CatUI, "also hidden", nil)
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestLog_NilLoggerIsSilent(t *testing.T) {
	defaultLogger = nil
	require.NotPanics(t, func() {
		Info(CatNav, "nobody listening")
		SetEnabled(true)
	})
	require.Empty(t, SessionID())
	require.Nil(t, NewListener(context.Background()))
}

func TestLog_PublishesToListeners(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	t.Cleanup(func() { defaultLogger = nil })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := defaultLogger.broker.Subscribe(ctx)

	Info(CatWatcher, "changed")

	select {
	case ev := <-ch:
		require.Contains(t, ev.Payload, "[watcher] changed")
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for log event")
	}
}

func TestInit_WritesSessionHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanup()
		defaultLogger = nil
	})
	require.NotEmpty(t, SessionID())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, LevelWarn, lvl)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}
