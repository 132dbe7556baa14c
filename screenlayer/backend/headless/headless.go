package headless

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/snapshot"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

// Backend implements backend.Backend for automated testing and batch
// processing. It replays a scripted list of actions, one per frame, and
// saves snapshots instead of displaying anything.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	script     []action.Action
	saved      []string
}

func New(maxFrames int, script []action.Action) *Backend {
	return &Backend{
		maxFrames: maxFrames,
		script:    script,
	}
}

func (h *Backend) Init(config backend.Config) error {
	if h.maxFrames <= 0 {
		return fmt.Errorf("headless mode needs a positive frame count, got %d", h.maxFrames)
	}
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"script_steps", len(h.script),
		"snapshot_interval", config.Snapshot.Interval,
		"snapshot_dir", config.Snapshot.Directory)

	return nil
}

// Update processes a frame: it replays the next scripted action and handles
// snapshots
func (h *Backend) Update(frame vram.Frame) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	if h.frameCount < len(h.script) {
		events = append(events, backend.InputEvent{Action: h.script[h.frameCount], Type: event.Press})
	}
	h.frameCount++

	snap := h.config.Snapshot
	if snap.Interval > 0 && h.frameCount%snap.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%10 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if snap.Interval > 0 && h.frameCount%snap.Interval != 0 {
			h.saveSnapshot(frame)
		}

		if h.config.Status != nil {
			slog.Info("Headless execution completed", "frames", h.frameCount, "status", h.config.Status())
		} else {
			slog.Info("Headless execution completed", "frames", h.frameCount)
		}

		events = append(events, backend.InputEvent{Action: action.Quit, Type: event.Press})
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Saved returns the paths of the snapshots written so far
func (h *Backend) Saved() []string {
	return h.saved
}

// InitLogging installs a debug level text handler on stderr, the way headless
// runs are expected to log
func InitLogging(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func (h *Backend) saveSnapshot(frame vram.Frame) {
	snap := h.config.Snapshot
	prefix := snap.BaseName
	if prefix == "" {
		prefix = "screenlayer"
	}
	baseName := fmt.Sprintf("%s_frame_%d", prefix, h.frameCount)

	path, err := snapshot.SaveToDir(frame, baseName, snap.Directory, snapshot.Format(snap.Format), snap.Scale)
	if err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.saved = append(h.saved, path)
}
