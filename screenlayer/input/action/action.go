package action

// Action represents something the user asked the demo to do
type Action int

const (
	// Layer movement
	LayerUp Action = iota
	LayerDown
	LayerLeft
	LayerRight

	// UI controls
	LayerNext
	Snapshot
	Quit
)

// Category groups actions by how backends and the input handler treat them
type Category int

const (
	// CategoryMovement actions repeat while a key is held and are not debounced
	CategoryMovement Category = iota
	// CategoryUI actions fire once per press and are debounced
	CategoryUI
)

// Info describes an action
type Info struct {
	Name        string
	Description string
	Category    Category
}

var infos = map[Action]Info{
	LayerUp:    {"up", "Slide selected layer up", CategoryMovement},
	LayerDown:  {"down", "Slide selected layer down", CategoryMovement},
	LayerLeft:  {"left", "Slide selected layer left", CategoryMovement},
	LayerRight: {"right", "Slide selected layer right", CategoryMovement},
	LayerNext:  {"next", "Select the next layer", CategoryUI},
	Snapshot:   {"snapshot", "Save a VRAM snapshot", CategoryUI},
	Quit:       {"quit", "Quit", CategoryUI},
}

// GetInfo returns the description of act
func GetInfo(act Action) Info {
	if info, ok := infos[act]; ok {
		return info
	}
	return Info{Name: "unknown", Description: "Unknown action", Category: CategoryUI}
}

// Lookup returns the action with the given short name
func Lookup(name string) (Action, bool) {
	for act, info := range infos {
		if info.Name == name {
			return act, true
		}
	}
	return 0, false
}

func (a Action) String() string {
	return GetInfo(a).Name
}
