// Package chat provides the conversation view for the TUI: the transcript
// of the active session above a growing question input.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// View is the chat view.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model
	composer *input.Composer

	session domain.Session
	width   int
	height  int
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:   s,
		keymap:   km,
		viewport: viewport.New(80, 10),
		composer: input.NewComposer(s, km),
		session:  *domain.NewSession(),
		width:    80,
		height:   20,
	}
	v.layout()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.composer.Init()
}

// Update handles transcript scrolling and forwards everything else to the
// question input. Submission is handled by the owner.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, v.keymap.ScrollUp):
			v.scroll(true)
			return v, nil
		case key.Matches(k, v.keymap.ScrollDown):
			v.scroll(false)
			return v, nil
		}
	}
	if _, ok := msg.(tea.MouseMsg); ok {
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	before := v.composer.Height()
	v.composer, cmd = v.composer.Update(msg)
	if v.composer.Height() != before {
		v.layout()
	}
	return v, cmd
}

// View renders the header, transcript and input.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderHeader(),
		v.viewport.View(),
		v.composer.View(),
	)
}

// SetSession replaces the displayed session. The transcript scrolls to
// the bottom when messages were appended.
func (v *View) SetSession(sess domain.Session) {
	appended := len(sess.ConversationLog) > len(v.session.ConversationLog)
	v.session = sess
	v.layout()
	if appended {
		v.viewport.GotoBottom()
	}
}

// Session returns the displayed session.
func (v *View) Session() domain.Session {
	return v.session
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.composer.SetWidth(width)
	v.layout()
}

// Value returns the pending question.
func (v *View) Value() string {
	return v.composer.Value()
}

// SetValue replaces the pending question.
func (v *View) SetValue(value string) {
	v.composer.SetValue(value)
	v.layout()
}

// ResetInput clears the pending question.
func (v *View) ResetInput() {
	v.composer.Reset()
	v.layout()
}

// Focus focuses the question input.
func (v *View) Focus() tea.Cmd {
	return v.composer.Focus()
}

// Blur removes focus from the question input.
func (v *View) Blur() {
	v.composer.Blur()
}

// scroll moves the transcript by half a page; SetYOffset clamps.
func (v *View) scroll(up bool) {
	step := max(1, v.viewport.Height/2)
	if up {
		step = -step
	}
	v.viewport.SetYOffset(v.viewport.YOffset + step)
}

// AtBottom reports whether the transcript shows its last line.
func (v *View) AtBottom() bool {
	return v.viewport.AtBottom()
}

// InputHeight returns the number of visible input lines.
func (v *View) InputHeight() int {
	return v.composer.Height()
}

// layout sizes the transcript to the space left by the header and input
// and refreshes its content.
func (v *View) layout() {
	header := lipgloss.Height(v.renderHeader())
	composer := v.composer.Height() + v.styles.InputField.GetVerticalFrameSize()
	h := v.height - header - composer
	if h < 1 {
		h = 1
	}
	v.viewport.Width = v.width
	v.viewport.Height = h
	v.viewport.SetContent(v.renderTranscript())
}

// renderHeader renders the session name, the active document and, when
// there is more than one document, the switcher hint.
func (v *View) renderHeader() string {
	title := v.styles.Title.Render(v.session.Name)
	if doc, ok := v.session.ActiveDocument(); ok {
		title += v.styles.Muted.Render("  " + doc.Name)
	}
	if n := len(v.session.Documents); n > 1 {
		h := v.keymap.Switch.Help()
		hint := fmt.Sprintf("%d documents | %s to switch", n, h.Key)
		return title + "\n" + v.styles.Help.Render(hint)
	}
	return title
}

// renderTranscript renders the conversation log wrapped to the view width.
func (v *View) renderTranscript() string {
	if len(v.session.ConversationLog) == 0 {
		return v.styles.Muted.Render("Ask a question about the document to get started.")
	}

	width := max(v.width, 10)
	body := lipgloss.NewStyle().Width(width)
	blocks := make([]string, 0, len(v.session.ConversationLog))
	for _, msg := range v.session.ConversationLog {
		var b strings.Builder
		if msg.Role == domain.RoleUser {
			b.WriteString(v.styles.UserLabel.Render("You"))
		} else {
			b.WriteString(v.styles.ModelLabel.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(msg.Text))
		if len(msg.Citations) > 0 {
			b.WriteString("\n")
			b.WriteString(v.styles.Citation.Render("Sources: " + strings.Join(msg.Citations, ", ")))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
