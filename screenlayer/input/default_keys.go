package input

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valerio/go-screenlayer/screenlayer/input/action"
)

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	"Up":    action.LayerUp,
	"Down":  action.LayerDown,
	"Left":  action.LayerLeft,
	"Right": action.LayerRight,

	// Alternative arrow keys (WASD)
	"w": action.LayerUp,
	"s": action.LayerDown,
	"a": action.LayerLeft,
	"d": action.LayerRight,

	"Tab":    action.LayerNext,
	"n":      action.LayerNext,
	"F9":     action.Snapshot,
	"p":      action.Snapshot,
	"Escape": action.Quit,
	"q":      action.Quit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}

// ParseScript parses a comma separated list of action names, each optionally
// followed by "*N" to repeat it, e.g. "right*3,next,down".
func ParseScript(script string) ([]action.Action, error) {
	var out []action.Action
	for _, step := range strings.Split(script, ",") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}

		name, count := step, 1
		if i := strings.IndexByte(step, '*'); i >= 0 {
			n, err := strconv.Atoi(step[i+1:])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid repeat count in %q", step)
			}
			name, count = step[:i], n
		}

		act, ok := action.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown action %q", name)
		}
		for i := 0; i < count; i++ {
			out = append(out, act)
		}
	}
	return out, nil
}
