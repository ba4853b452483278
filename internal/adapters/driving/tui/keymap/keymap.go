// Package keymap holds the TUI key bindings and the hints shown for each
// view.
package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
)

var _ help.KeyMap = (*KeyMap)(nil)

// KeyMap is every binding the TUI reacts to.
type KeyMap struct {
	// Global, active in every view.
	Quit    key.Binding
	Upload  key.Binding
	NewChat key.Binding

	// Switch opens the document switcher. Disabled while the session has
	// fewer than two documents.
	Switch key.Binding

	// Composer.
	Submit  key.Binding
	Newline key.Binding

	// Transcript.
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Prompts and the switcher list.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

func binding(keys []string, helpKey, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// DefaultKeyMap returns the default bindings. Enter sends, alt+enter
// breaks the line.
func DefaultKeyMap() *KeyMap {
	km := &KeyMap{
		Quit:    binding([]string{"ctrl+c"}, "ctrl+c", "quit"),
		Upload:  binding([]string{"ctrl+u"}, "ctrl+u", "upload"),
		NewChat: binding([]string{"ctrl+n"}, "ctrl+n", "new chat"),
		Switch:  binding([]string{"ctrl+o"}, "ctrl+o", "switch"),

		Submit:  binding([]string{"enter"}, "enter", "send"),
		Newline: binding([]string{"alt+enter"}, "alt+enter", "newline"),

		ScrollUp:   binding([]string{"pgup"}, "pgup", "scroll up"),
		ScrollDown: binding([]string{"pgdown"}, "pgdn", "scroll down"),

		Up:     binding([]string{"up", "k"}, "↑/k", "up"),
		Down:   binding([]string{"down", "j"}, "↓/j", "down"),
		Select: binding([]string{"enter"}, "enter", "select"),
		Cancel: binding([]string{"esc"}, "esc", "cancel"),
	}
	km.Switch.SetEnabled(false)
	return km
}

// SetDocumentCount enables Switch once there is something to switch to.
func (k *KeyMap) SetDocumentCount(n int) {
	k.Switch.SetEnabled(n > 1)
}

// Hints returns the bindings the status bar shows in view.
func (k *KeyMap) Hints(view messages.ViewType) []key.Binding {
	switch view {
	case messages.ViewChat:
		return []key.Binding{k.Submit, k.Newline, k.Upload, k.Switch, k.NewChat, k.Quit}
	case messages.ViewSwitcher:
		return []key.Binding{k.Up, k.Down, k.Select, k.Cancel}
	default:
		return []key.Binding{k.Select, k.Cancel, k.Quit}
	}
}

// ShortHelp is the hint set of the upload prompt.
func (k *KeyMap) ShortHelp() []key.Binding {
	return k.Hints(messages.ViewUpload)
}

// FullHelp groups every binding by where it applies.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.ScrollUp, k.ScrollDown},
		{k.Upload, k.Switch, k.NewChat},
		{k.Up, k.Down, k.Select, k.Cancel},
		{k.Quit},
	}
}
