package components

import (
	"fmt"
	"strings"

	"github.com/PizzaHomicide/listfill/internal/ui/styles"
	"github.com/PizzaHomicide/listfill/internal/ui/tui/keybindings"
)

// KeyBindingsBar creates a styled footer showing the bindings of a context
// width: The width of the screen to center the bar
func KeyBindingsBar(width int, context keybindings.ContextName) string {
	var parts []string
	for _, b := range keybindings.ContextBindings[context] {
		parts = append(parts, fmt.Sprintf("%s: %s",
			styles.Key.Render(keybindings.FormatKey(b)),
			b.KeyMap.Help))
	}

	keyBar := styles.Info.Render(strings.Join(parts, " • "))
	return styles.CenteredText(width, keyBar)
}
