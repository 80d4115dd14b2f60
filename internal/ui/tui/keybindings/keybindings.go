package keybindings

import tea "github.com/charmbracelet/bubbletea"

// Action represents a specific action that can be triggered by a key
type Action string

// Define all possible actions
const (
	// Global actions
	ActionQuit Action = "quit"

	// Running view actions
	ActionToggleLog Action = "toggle_log"

	// Finished view actions
	ActionClose Action = "close"
)

// ContextName represents a specific UI context in the application that has its own keybinds
type ContextName string

const (
	ContextGlobal   ContextName = "global"
	ContextRunning  ContextName = "running"
	ContextFinished ContextName = "finished"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal:   globalBindings,
	ContextRunning:  withGlobal(runningBindings),
	ContextFinished: withGlobal(finishedBindings),
}

// KeyMap stores the mappings from actions to key sequences for each context
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string // Description for help screen
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

// globalBindings contains key bindings that work across all views
var globalBindings = []Binding{
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary:   "ctrl+c",
			Secondary: "q",
			Help:      "Stop the run",
		},
	},
}

// runningBindings contains key bindings while submissions are in flight
var runningBindings = []Binding{
	{
		Action: ActionToggleLog,
		KeyMap: KeyMap{
			Primary: "l",
			Help:    "Toggle recent results",
		},
	},
}

// finishedBindings contains key bindings once the summary is shown
var finishedBindings = []Binding{
	{
		Action: ActionClose,
		KeyMap: KeyMap{
			Primary:   "enter",
			Secondary: "esc",
			Help:      "Close",
		},
	},
}

// GetActionByKey returns just the action for a given key, or an empty Action if not found
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	if bindings, exists := ContextBindings[name]; exists {
		key := keyMsg.String()
		for _, binding := range bindings {
			if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
				return binding.Action
			}
		}
	}
	return ""
}

// FormatKey formats the keys of a binding for the footer bar
func FormatKey(binding Binding) string {
	if binding.KeyMap.Secondary != "" {
		return binding.KeyMap.Primary + "/" + binding.KeyMap.Secondary
	}
	return binding.KeyMap.Primary
}

// withGlobal is a helper function to include the global bindings in other binding sets
func withGlobal(bindings []Binding) []Binding {
	return append(append([]Binding{}, globalBindings...), bindings...)
}
