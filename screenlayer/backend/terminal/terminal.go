// Package terminal shows video memory in a truecolor terminal using tcell
// half-block characters, two pixels per cell.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/input"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

const (
	logCapacity   = 200
	minLogWidth   = 24
	minTermWidth  = 20
	minTermHeight = 6
)

// Backend implements backend.Backend using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	config    backend.Config
	logBuffer *LogBuffer
	logLevel  slog.Level

	eventQueue []backend.InputEvent
	signals    chan os.Signal
}

// New creates a terminal backend on the real terminal. Log records at or
// above logLevel are shown in the log pane.
func New(logLevel slog.Level) *Backend {
	return &Backend{logLevel: logLevel}
}

// NewWithScreen creates a backend drawing on screen, which Init will
// initialise. Tests pass a tcell simulation screen.
func NewWithScreen(screen tcell.Screen, logLevel slog.Level) *Backend {
	return &Backend{screen: screen, logLevel: logLevel}
}

// Init initializes the terminal and routes slog output to the log pane
func (t *Backend) Init(config backend.Config) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.logBuffer = NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(NewLogHandler(t.logBuffer, t.logLevel)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	slog.Info("Terminal backend initialized")
	return nil
}

// Update draws frame and returns the key presses seen since the last call
func (t *Backend) Update(frame vram.Frame) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Signal received", "signal", sig)
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.Quit, Type: event.Press})
	default:
	}

	events := t.eventQueue
	t.eventQueue = nil

	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup restores the terminal
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// Logs returns the log buffer shown in the log pane
func (t *Backend) Logs() *LogBuffer {
	return t.logBuffer
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyTab:    "Tab",
	tcell.KeyEscape: "Escape",
	tcell.KeyF9:     "F9",
}

func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)
	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	mapping[tcell.KeyCtrlC] = action.Quit
	return mapping
}

var keyMapping = buildKeyMapping()

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = input.GetDefaultMapping(string(ev.Rune()))
	}
	if !ok {
		return
	}

	slog.Debug("Key event", "key", ev.Name(), "action", act)
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) render(frame vram.Frame) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := "Terminal too small"
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	// title row, frame rows, status row, help row
	frameRows := termHeight - 3
	frameCols := termWidth
	if termWidth >= 2*minLogWidth {
		frameCols = termWidth - minLogWidth - 1
	}

	cols := t.drawFrame(frame, 0, 1, frameCols, frameRows)

	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	res := frame.Resolution()
	t.drawText(1, 0, frameCols-1, fmt.Sprintf(" %s %s ", t.config.Title, res), titleStyle)

	if frameCols < termWidth {
		dividerX := max(cols, 1)
		for y := 0; y < termHeight-2; y++ {
			t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
		}
		t.drawText(dividerX+2, 0, termWidth-dividerX-2, " Logs ", titleStyle)
		t.drawLogs(dividerX+1, 1, termWidth-dividerX-1, termHeight-3)
	}

	if t.config.Status != nil {
		t.drawText(0, termHeight-2, termWidth, t.config.Status(), borderStyle)
	}
	help := " arrows/wasd=move  tab/n=next layer  p/F9=snapshot  q/esc=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

// drawFrame renders frame into the cell rectangle at (x0, y0), sampling every
// step-th pixel so the whole frame fits. It returns the columns used.
func (t *Backend) drawFrame(frame vram.Frame, x0, y0, maxCols, maxRows int) int {
	res := frame.Resolution()
	w, h := int(res.W), int(res.H)
	if w == 0 || h == 0 || maxCols <= 0 || maxRows <= 0 {
		return 0
	}

	step := max(ceilDiv(w, maxCols), ceilDiv(h, 2*maxRows), 1)
	cols := ceilDiv(w, step)
	rows := ceilDiv(h, 2*step)

	for row := 0; row < rows; row++ {
		top := row * 2 * step
		bottom := top + step
		for col := 0; col < cols; col++ {
			x := col * step
			fg := cellColor(frame, x, top)
			style := tcell.StyleDefault.Foreground(fg)
			if bottom < h {
				style = style.Background(cellColor(frame, x, bottom))
			} else {
				style = style.Background(tcell.ColorBlack)
			}
			t.screen.SetContent(x0+col, y0+row, '▀', nil, style)
		}
	}
	return cols
}

func cellColor(frame vram.Frame, x, y int) tcell.Color {
	c := frame.ColorAt(uint32(x), uint32(y))
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func (t *Backend) drawLogs(startX, startY, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.Recent(height, t.logLevel) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		text := FormatLogEntry(entry)
		if runes := []rune(text); len(runes) > width && width > 3 {
			text = string(runes[:width-3]) + "..."
		}
		t.drawText(startX, startY+i, width, text, style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= width {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
