// Package scene builds the demo layer stack shown by cmd/screenlayer and runs
// the loop that feeds backend input into a controller.
package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/valerio/go-screenlayer/screenlayer"
	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/canvas"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/id"
	"github.com/valerio/go-screenlayer/screenlayer/input"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/layer"
	"github.com/valerio/go-screenlayer/screenlayer/pixel"
	"github.com/valerio/go-screenlayer/screenlayer/snapshot"
	"github.com/valerio/go-screenlayer/screenlayer/timing"
	"tinygo.org/x/tinyfont/proggy"
)

// ErrQuit is returned by Apply when the quit action is received.
var ErrQuit = errors.New("quit requested")

const (
	checkerCell = 8
	cursorSize  = 7
)

var (
	checkerDark  = pixel.RGB(0x30, 0x30, 0x38)
	checkerLight = pixel.RGB(0x48, 0x48, 0x50)
	panelFill    = pixel.RGB(0x20, 0x40, 0x80)
	cursorColor  = pixel.RGB(0xFF, 0xD0, 0x00)
)

// Options configures the demo scene.
type Options struct {
	Title string
	// Step is how many pixels a movement action slides the selected layer.
	Step int

	// Image, if set, is added as the topmost layer at ImageAt.
	Image   image.Image
	ImageAt geom.Point

	Snapshot backend.SnapshotConfig

	// Input debounces events in Run. Defaults to input.NewHandler().
	Input *input.Handler
}

// Scene owns a controller and the layers it put on it.
type Scene struct {
	ctrl  *screenlayer.Controller
	opts  Options
	input *input.Handler

	background id.ID
	movable    []id.ID
	selected   int

	frames    int
	snapshots []string
}

// New fills ctrl with the demo layers: a checkered background, a titled
// panel, a cursor with transparent holes and, optionally, an image. The
// topmost layer starts selected.
func New(ctrl *screenlayer.Controller, opts Options) (*Scene, error) {
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if opts.Title == "" {
		opts.Title = "screenlayer"
	}
	if opts.Input == nil {
		opts.Input = input.NewHandler()
	}

	s := &Scene{ctrl: ctrl, opts: opts, input: opts.Input}
	res := ctrl.VRAM().Resolution()

	s.background = ctrl.AddLayer(newBackground(res))

	panel, err := newPanel(res, opts.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to build panel: %w", err)
	}
	s.movable = append(s.movable, ctrl.AddLayer(panel))
	s.movable = append(s.movable, ctrl.AddLayer(newCursor(res)))

	if opts.Image != nil {
		s.movable = append(s.movable, ctrl.AddLayer(layer.FromImage(opts.ImageAt, opts.Image)))
	}
	s.selected = len(s.movable) - 1

	slog.Debug("Scene ready", "resolution", res.String(), "layers", ctrl.Len())
	return s, nil
}

func newBackground(res geom.Size) *layer.Layer {
	l := layer.New(geom.Pt(0, 0), res)
	for y := 0; y < int(res.H); y++ {
		row := l.Row(y)
		for x := range row {
			row[x] = pixel.Opaque(backgroundAt(x, y))
		}
	}
	return l
}

func backgroundAt(x, y int) pixel.RGB8 {
	if (x/checkerCell+y/checkerCell)%2 == 0 {
		return checkerDark
	}
	return checkerLight
}

func newPanel(res geom.Size, title string) (*layer.Layer, error) {
	size := geom.Sz(max(res.W/2, 1), max(res.H/3, 1))
	l := layer.New(geom.Pt(int(res.W/8), int(res.H/8)), size)
	l.Fill(pixel.Opaque(panelFill))

	w, h := int(size.W), int(size.H)
	border := pixel.Opaque(pixel.White)
	l.FillRect(geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(w, 1)}, border)
	l.FillRect(geom.Rect{Min: geom.Pt(0, h-1), Max: geom.Pt(w, h)}, border)
	l.FillRect(geom.Rect{Min: geom.Pt(0, 0), Max: geom.Pt(1, h)}, border)
	l.FillRect(geom.Rect{Min: geom.Pt(w-1, 0), Max: geom.Pt(w, h)}, border)

	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	if err := canvas.ForLayer(l).WriteLine(&proggy.TinySZ8pt7b, 3, 9, title, white); err != nil {
		return nil, err
	}
	return l, nil
}

// newCursor draws a cross whose centre and corners are transparent, so the
// layers beneath show through.
func newCursor(res geom.Size) *layer.Layer {
	half := cursorSize / 2
	l := layer.New(geom.Pt(int(res.W)/2-half, int(res.H)/2-half), geom.Sz(cursorSize, cursorSize))

	p := pixel.Opaque(cursorColor)
	for i := 0; i < cursorSize; i++ {
		if i == half {
			continue
		}
		l.Set(i, half, p)
		l.Set(half, i, p)
	}
	return l
}

// Controller returns the controller the scene draws on.
func (s *Scene) Controller() *screenlayer.Controller {
	return s.ctrl
}

// Selected returns the layer movement actions apply to.
func (s *Scene) Selected() id.ID {
	return s.movable[s.selected]
}

// Frames returns how many frames Run has presented.
func (s *Scene) Frames() int {
	return s.frames
}

// Snapshots returns the paths written by the snapshot action.
func (s *Scene) Snapshots() []string {
	return s.snapshots
}

// Status describes the scene in one line.
func (s *Scene) Status() string {
	selected := s.Selected()
	pos := "?"
	if r, err := s.ctrl.Bounds(selected); err == nil {
		pos = r.Min.String()
	}
	return fmt.Sprintf("%s | %s at %s | %d layers | frame %d",
		s.opts.Title, selected, pos, s.ctrl.Len(), s.frames)
}

// Apply performs a single action. It returns ErrQuit for action.Quit.
func (s *Scene) Apply(act action.Action) error {
	switch act {
	case action.LayerUp:
		return s.slide(0, -s.opts.Step)
	case action.LayerDown:
		return s.slide(0, s.opts.Step)
	case action.LayerLeft:
		return s.slide(-s.opts.Step, 0)
	case action.LayerRight:
		return s.slide(s.opts.Step, 0)
	case action.LayerNext:
		s.selected = (s.selected + 1) % len(s.movable)
		slog.Debug("Layer selected", "layer", s.Selected())
		return nil
	case action.Snapshot:
		return s.snapshot()
	case action.Quit:
		return ErrQuit
	default:
		return fmt.Errorf("unsupported action %v", act)
	}
}

func (s *Scene) slide(dx, dy int) error {
	selected := s.Selected()
	r, err := s.ctrl.Bounds(selected)
	if err != nil {
		return err
	}
	return s.ctrl.SlideLayer(selected, r.Min.Offset(geom.Pt(dx, dy)))
}

func (s *Scene) snapshot() error {
	snap := s.opts.Snapshot
	baseName := snap.BaseName
	if baseName == "" {
		baseName = "screenlayer"
	}

	path, err := snapshot.SaveToDir(s.ctrl.VRAM(), baseName, snap.Directory, snapshot.Format(snap.Format), snap.Scale)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.snapshots = append(s.snapshots, path)
	return nil
}

// Run presents the screen through b once per frame and applies the actions
// it reports until a quit action arrives, b fails, or ctx is done. A quit
// ends the loop with a nil error. Snapshot failures are logged and do not
// stop the loop. b must already be initialised.
func (s *Scene) Run(ctx context.Context, b backend.Backend, limiter timing.Limiter) error {
	limiter.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		events, err := b.Update(s.ctrl.VRAM())
		if err != nil {
			return fmt.Errorf("backend update failed: %w", err)
		}
		s.frames++

		for _, evt := range events {
			if evt.Type == event.Release || !s.input.ProcessEvent(evt) {
				continue
			}

			err := s.Apply(evt.Action)
			switch {
			case errors.Is(err, ErrQuit):
				slog.Info("Quit requested", "frames", s.frames)
				return nil
			case err != nil && evt.Action == action.Snapshot:
				slog.Error("Snapshot failed", "error", err)
			case err != nil:
				return err
			}
		}

		limiter.WaitForNextFrame()
	}
}
