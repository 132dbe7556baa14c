package terminal

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

func newSimBackend(t *testing.T) (*Backend, tcell.SimulationScreen) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewWithScreen(screen, slog.LevelInfo)
	require.NoError(t, b.Init(backend.Config{
		Title:  "test",
		Status: func() string { return "status line" },
	}))
	t.Cleanup(func() { _ = b.Cleanup() })
	screen.SetSize(80, 24)
	return b, screen
}

func testFrame() *vram.Writer {
	w := vram.New(geom.Sz(4, 4), 32, make(vram.Buffer, 64))
	w.SetColor(0, 0, pixel.Red)
	w.SetColor(0, 1, pixel.Blue)
	w.SetColor(3, 3, pixel.Green)
	return w
}

func rgb(c pixel.RGB8) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func TestUpdateDrawsHalfBlocks(t *testing.T) {
	b, screen := newSimBackend(t)

	events, err := b.Update(testFrame())
	require.NoError(t, err)
	assert.Empty(t, events)

	ch, _, style, _ := screen.GetContent(0, 1)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, '▀', ch)
	assert.Equal(t, rgb(pixel.Red), fg)
	assert.Equal(t, rgb(pixel.Blue), bg)

	_, _, style, _ = screen.GetContent(3, 2)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, rgb(pixel.Black), fg)
	assert.Equal(t, rgb(pixel.Green), bg)
}

func TestUpdateDrawsStatusLine(t *testing.T) {
	b, screen := newSimBackend(t)

	_, err := b.Update(testFrame())
	require.NoError(t, err)

	var line []rune
	for x := 0; x < len("status line"); x++ {
		ch, _, _, _ := screen.GetContent(x, 22)
		line = append(line, ch)
	}
	assert.Equal(t, "status line", string(line))
}

func TestKeyEventsMapToActions(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want action.Action
	}{
		{"arrow", tcell.KeyRight, 0, action.LayerRight},
		{"wasd", tcell.KeyRune, 'w', action.LayerUp},
		{"tab", tcell.KeyTab, 0, action.LayerNext},
		{"snapshot", tcell.KeyRune, 'p', action.Snapshot},
		{"escape", tcell.KeyEscape, 0, action.Quit},
		{"ctrl-c", tcell.KeyCtrlC, 0, action.Quit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newSimBackend(t)
			b.processKeyEvent(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))

			events, err := b.Update(testFrame())
			require.NoError(t, err)
			assert.Equal(t, []backend.InputEvent{{Action: tt.want, Type: event.Press}}, events)
		})
	}
}

func TestUnmappedKeyIgnored(t *testing.T) {
	b, _ := newSimBackend(t)
	b.processKeyEvent(tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone))

	events, err := b.Update(testFrame())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInitRoutesLogsToPane(t *testing.T) {
	b, _ := newSimBackend(t)

	slog.Debug("hidden")
	slog.Warn("layer moved", "x", 3)

	entries := b.Logs().Recent(0, slog.LevelDebug)
	require.NotEmpty(t, entries)
	assert.Equal(t, "layer moved x=3", entries[0].Message)
	for _, e := range entries {
		assert.NotEqual(t, "hidden", e.Message)
	}
}

func TestDrawLogsTruncatesByRune(t *testing.T) {
	b, screen := newSimBackend(t)
	b.Logs().Add(LogEntry{Time: time.Now(), Level: slog.LevelWarn, Message: "éééééééééé"})

	screen.Clear()
	b.drawLogs(0, 0, 20, 1)

	var line []rune
	for x := 0; x < 20; x++ {
		ch, _, _, _ := screen.GetContent(x, 0)
		line = append(line, ch)
	}
	assert.Equal(t, "[WRN] éé...", string(line[9:]))
}

func TestLogBufferWrapsNewestFirst(t *testing.T) {
	lb := NewLogBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Level: slog.Level(i * 4), Message: msg})
	}

	var got []string
	for _, e := range lb.Recent(0, slog.LevelDebug) {
		got = append(got, e.Message)
	}
	assert.Equal(t, []string{"d", "c", "b"}, got)

	errs := lb.Recent(0, slog.LevelError)
	require.Len(t, errs, 2)
	assert.Equal(t, "d", errs[0].Message)

	assert.Len(t, lb.Recent(1, slog.LevelDebug), 1)
}

func TestLogHandlerWithAttrs(t *testing.T) {
	lb := NewLogBuffer(4)
	logger := slog.New(NewLogHandler(lb, slog.LevelInfo)).With("layer", "layer#1")

	logger.Info("slid", "to", "(1,2)")

	entries := lb.Recent(0, slog.LevelDebug)
	require.Len(t, entries, 1)
	assert.Equal(t, "slid layer=layer#1 to=(1,2)", entries[0].Message)
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{
		Time:    time.Date(2024, 1, 1, 13, 4, 5, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "careful",
	}
	assert.Equal(t, "13:04:05 [WRN] careful", FormatLogEntry(entry))
}
