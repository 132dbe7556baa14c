//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/geom"
	"github.com/valerio/go-screenlayer/screenlayer/input"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
	"github.com/valerio/go-screenlayer/screenlayer/vram"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	defaultWindowWidth  = 640
	defaultWindowHeight = 480
	rgbBytesPerPixel    = 3
)

// Backend implements backend.Backend using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.Config

	// texture size and staging buffer, sized on the first frame
	textureSize geom.Size
	pixels      []byte

	eventQueue []backend.InputEvent
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init opens the window. The texture is created on the first Update, once
// the frame resolution is known.
func (s *Backend) Init(config backend.Config) error {
	if config.Scale < 1 {
		config.Scale = 1
	}
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		defaultWindowWidth,
		defaultWindowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	slog.Info("SDL2 backend initialized", "scale", config.Scale)
	return nil
}

// Update renders a frame and returns the input collected since the last call
func (s *Backend) Update(frame vram.Frame) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	if err := s.ensureTexture(frame.Resolution()); err != nil {
		return nil, err
	}
	if err := s.renderFrame(frame); err != nil {
		return nil, err
	}

	if s.config.Status != nil {
		s.window.SetTitle(s.config.Title + " | " + s.config.Status())
	}

	events := s.eventQueue
	s.eventQueue = nil
	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) ensureTexture(res geom.Size) error {
	if s.texture != nil && s.textureSize == res {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}

	texture, err := s.renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB24,
		sdl.TEXTUREACCESS_STREAMING,
		int32(res.W),
		int32(res.H),
	)
	if err != nil {
		return fmt.Errorf("failed to create texture: %w", err)
	}

	s.texture = texture
	s.textureSize = res
	s.pixels = make([]byte, res.Area()*rgbBytesPerPixel)
	s.window.SetSize(int32(res.W)*int32(s.config.Scale), int32(res.H)*int32(s.config.Scale))
	return nil
}

func (s *Backend) renderFrame(frame vram.Frame) error {
	res := frame.Resolution()
	if res.Area() == 0 {
		return nil
	}

	i := 0
	for y := uint32(0); y < res.H; y++ {
		for x := uint32(0); x < res.W; x++ {
			c := frame.ColorAt(x, y)
			s.pixels[i] = c.R
			s.pixels[i+1] = c.G
			s.pixels[i+2] = c.B
			i += rgbBytesPerPixel
		}
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), int(res.W)*rgbBytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: action.Quit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}

		switch {
		case e.Type == sdl.KEYUP:
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Release})
		case e.Repeat != 0 && action.GetInfo(act).Category == action.CategoryMovement:
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Hold})
		case e.Repeat == 0:
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
		}
	}
}

// sdlKeyNameMap converts SDL keycodes to key names used in default mappings
var sdlKeyNameMap = map[sdl.Keycode]string{
	sdl.K_UP:     "Up",
	sdl.K_DOWN:   "Down",
	sdl.K_LEFT:   "Left",
	sdl.K_RIGHT:  "Right",
	sdl.K_w:      "w",
	sdl.K_a:      "a",
	sdl.K_s:      "s",
	sdl.K_d:      "d",
	sdl.K_TAB:    "Tab",
	sdl.K_n:      "n",
	sdl.K_F9:     "F9",
	sdl.K_p:      "p",
	sdl.K_ESCAPE: "Escape",
	sdl.K_q:      "q",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, keyName := range sdlKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}
	return mapping
}

// keyMapping maps SDL2 keys to actions
var keyMapping = buildKeyMapping()
