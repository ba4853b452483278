// Package upload provides the file path prompt shown before the first
// document is uploaded and on demand afterwards.
package upload

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// View is the upload prompt view.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.PathInput

	// cancellable is set when there is a chat to return to.
	cancellable bool
	width       int
	height      int
}

// NewView creates a new upload view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		input:  input.NewPathInput(s),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles key events. Enter requests an upload of the typed path;
// esc returns to the chat when there is one.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, v.keymap.Select):
			path := v.input.Value()
			if path == "" {
				return v, nil
			}
			v.input.Reset()
			return v, func() tea.Msg { return messages.UploadRequested{Path: path} }
		case key.Matches(k, v.keymap.Cancel):
			if !v.cancellable {
				return v, nil
			}
			v.input.Reset()
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} }
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the prompt.
func (v *View) View() string {
	help := "enter: upload"
	if v.cancellable {
		help += " | esc: back to chat"
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("docchat"),
		"",
		v.styles.Normal.Render("Upload a PDF to start chatting with it."),
		v.styles.Muted.Render("Type or paste the path to a file and press enter."),
		"",
		v.input.View(),
		"",
		v.styles.Help.Render(help),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetCancellable sets whether esc returns to the chat.
func (v *View) SetCancellable(cancellable bool) {
	v.cancellable = cancellable
}

// Cancellable reports whether esc returns to the chat.
func (v *View) Cancellable() bool {
	return v.cancellable
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width - 4)
}

// Focus focuses the path input.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}

// Reset clears the path input.
func (v *View) Reset() {
	v.input.Reset()
}

// Value returns the typed path.
func (v *View) Value() string {
	return v.input.Value()
}
