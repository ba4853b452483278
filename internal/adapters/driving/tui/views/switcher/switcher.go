// Package switcher provides the document switcher view for the TUI.
package switcher

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// View lists the session documents and emits the one picked.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	list   *list.DocumentList
	width  int
	height int
}

// NewView creates a new switcher view.
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
		list:   list.NewDocumentList(s, km),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles key events.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, v.keymap.Select):
			doc := v.list.SelectedDocument()
			if doc == nil {
				return v, nil
			}
			id := doc.ID
			return v, func() tea.Msg { return messages.DocumentSelected{ID: id} }
		case key.Matches(k, v.keymap.Cancel):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChat} }
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders the switcher.
func (v *View) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("Switch document"),
		"",
		v.list.View(),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetDocuments replaces the listed documents.
func (v *View) SetDocuments(docs []domain.Document, activeID string) {
	v.list.SetDocuments(docs, activeID)
}

// Selected returns the highlighted document, or nil.
func (v *View) Selected() *domain.Document {
	return v.list.SelectedDocument()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width-4, height-4)
}
