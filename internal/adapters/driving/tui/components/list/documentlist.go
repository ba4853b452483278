// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentList displays session documents in a navigable list.
type DocumentList struct {
	documents []domain.Document
	activeID  string
	selected  int
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles, km *keymap.KeyMap) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &DocumentList{
		styles: s,
		keymap: km,
		width:  80,
		height: 10,
	}
}

// Init initialises the document list.
func (d *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (d *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch {
	case key.Matches(k, d.keymap.Up):
		d.MoveUp()
	case key.Matches(k, d.keymap.Down):
		d.MoveDown()
	case k.String() == "home", k.String() == "g":
		d.selected = 0
	case k.String() == "end", k.String() == "G":
		d.selected = max(0, len(d.documents)-1)
	}
	return d, nil
}

// View renders the document list.
func (d *DocumentList) View() string {
	if len(d.documents) == 0 {
		return d.styles.Muted.Render("No documents")
	}

	lines := make([]string, 0, len(d.documents)+2)
	lines = append(lines, d.styles.Subtitle.Render(fmt.Sprintf("Documents (%d)", len(d.documents))), "")

	visibleCount := d.height - 2
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if d.selected >= visibleCount {
		start = d.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(d.documents))

	for i := start; i < end; i++ {
		lines = append(lines, d.renderDocument(i, &d.documents[i]))
	}

	return strings.Join(lines, "\n")
}

// renderDocument formats one row: selection indicator, active marker,
// name and upload time.
func (d *DocumentList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == d.selected {
		indicator = "> "
	}
	marker := "  "
	if doc.ID == d.activeID {
		marker = "* "
	}

	maxNameLen := max(10, d.width-24)
	name := truncate(doc.Name, maxNameLen)

	uploaded := doc.UploadedAt.Local().Format("Jan 02 15:04")
	row := fmt.Sprintf("%s%s%-*s  ", indicator, marker, maxNameLen, name)

	if index == d.selected {
		return d.styles.Selected.Render(row + uploaded)
	}
	return d.styles.Normal.Render(row) + d.styles.Muted.Render(uploaded)
}

// SetDocuments replaces the listed documents and selects the active one.
func (d *DocumentList) SetDocuments(docs []domain.Document, activeID string) {
	d.documents = docs
	d.activeID = activeID
	d.selected = 0
	for i := range docs {
		if docs[i].ID == activeID {
			d.selected = i
			break
		}
	}
}

// Documents returns the listed documents.
func (d *DocumentList) Documents() []domain.Document {
	return d.documents
}

// Selected returns the index of the selected document.
func (d *DocumentList) Selected() int {
	return d.selected
}

// SelectedDocument returns the currently selected document, or nil if none.
func (d *DocumentList) SelectedDocument() *domain.Document {
	if len(d.documents) == 0 || d.selected < 0 || d.selected >= len(d.documents) {
		return nil
	}
	return &d.documents[d.selected]
}

// MoveUp moves selection up.
func (d *DocumentList) MoveUp() {
	if d.selected > 0 {
		d.selected--
	}
}

// MoveDown moves selection down.
func (d *DocumentList) MoveDown() {
	if d.selected < len(d.documents)-1 {
		d.selected++
	}
}

// SetDimensions sets the component dimensions.
func (d *DocumentList) SetDimensions(width, height int) {
	d.width = width
	d.height = height
}

// Count returns the number of documents.
func (d *DocumentList) Count() int {
	return len(d.documents)
}

// truncate shortens s to n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
