package backend

import (
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
)

// Backend presents the contents of video memory somewhere a human (or a test)
// can see it, and reports input.
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, files)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshot cadence, status lines)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update presents frame and returns the input events collected since the
	// previous call.
	Update(frame vram.Frame) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is an action reported by a backend
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Config holds configuration for backends
type Config struct {
	Title string
	Scale int // Pixel scale for windowed backends

	// Status returns a one-line description of the current state. Backends
	// that can show text display it; it may be nil.
	Status func() string

	Snapshot SnapshotConfig
}

// SnapshotConfig holds configuration for VRAM snapshots
type SnapshotConfig struct {
	Interval  int    // Save a snapshot every N frames, 0 disables periodic snapshots
	Directory string // Directory to save snapshots
	Format    string // "png" or "bmp"
	Scale     int    // Integer upscale factor
	BaseName  string // File name prefix
}
