// Package input turns backend key events into compositor actions.
package input

import (
	"time"

	"github.com/valerio/go-screenlayer/screenlayer/backend"
	"github.com/valerio/go-screenlayer/screenlayer/input/action"
	"github.com/valerio/go-screenlayer/screenlayer/input/event"
)

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

// DefaultDebounceDelay is the minimum time between two handled presses of
// the same UI action.
const DefaultDebounceDelay = 300 * time.Millisecond

func NewHandler() *Handler {
	return NewHandlerWithDelay(DefaultDebounceDelay)
}

// NewHandlerWithDelay returns a handler with a custom debounce delay. A zero
// delay disables debouncing, which is what scripted runs want.
func NewHandlerWithDelay(delay time.Duration) *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  delay,
		now:            time.Now,
	}
}

// ProcessEvent processes an input event, applying debouncing for Press/Release
// events of UI actions. Movement actions pass through so that holding a key
// keeps a layer sliding.
// Returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if h.debounceDelay <= 0 || action.GetInfo(evt.Action).Category != action.CategoryUI {
		return true
	}

	if evt.Type == event.Press || evt.Type == event.Release {
		now := h.now()
		if lastTime, exists := h.lastActionTime[evt.Action]; exists {
			if now.Sub(lastTime) < h.debounceDelay {
				return false
			}
		}
		h.lastActionTime[evt.Action] = now
	}

	return true
}
