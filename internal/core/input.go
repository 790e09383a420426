package core

// Action represents a semantic input, abstracted from physical keys or mouse buttons.
type Action uint8

const (
	ActionNone  Action = iota
	ActionUp           // Up arrow, W
	ActionDown         // Down arrow, S
	ActionLeft         // Left arrow, A
	ActionRight        // Right arrow, D
	ActionClick        // Left mouse press, Enter, Space
	ActionQuit         // Q, Ctrl+C
	ActionHelp         // ?
)

var actionNames = [...]string{
	ActionNone:  "None",
	ActionUp:    "Up",
	ActionDown:  "Down",
	ActionLeft:  "Left",
	ActionRight: "Right",
	ActionClick: "Click",
	ActionQuit:  "Quit",
	ActionHelp:  "Help",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// InputFrame is the set of actions active during one frame.
// For directions this means "held", for the rest "pressed this frame".
type InputFrame uint16

// NewInputFrame creates an empty input frame with the given actions set.
func NewInputFrame(actions ...Action) InputFrame {
	var f InputFrame
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	*f |= 1 << a
}

// Has reports whether the given action is active.
func (f InputFrame) Has(a Action) bool {
	return a != ActionNone && f&(1<<a) != 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	*f = 0
}

// Empty reports whether no action is active.
func (f InputFrame) Empty() bool {
	return f == 0
}
