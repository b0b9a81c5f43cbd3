package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpBinding is a single row in the help popup.
type HelpBinding struct {
	Key         string
	Description string
}

// HelpBindingFromKey converts a key.Binding to a HelpBinding.
func HelpBindingFromKey(k key.Binding) HelpBinding {
	h := k.Help()
	return HelpBinding{Key: h.Key, Description: h.Desc}
}

// RenderBindings produces the body text of the help popup, one binding
// per line with the key column padded to align descriptions.
func RenderBindings(bindings []HelpBinding) string {
	keyWidth := 0
	for _, b := range bindings {
		if len(b.Key) > keyWidth {
			keyWidth = len(b.Key)
		}
	}
	var out strings.Builder
	for i, b := range bindings {
		if i > 0 {
			out.WriteString("\n")
		}
		padded := b.Key + strings.Repeat(" ", keyWidth-len(b.Key))
		out.WriteString(HelpKeyStyle.Render(padded))
		out.WriteString("  ")
		out.WriteString(HelpDescStyle.Render(b.Description))
	}
	return out.String()
}
