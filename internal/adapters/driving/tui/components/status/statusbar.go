// Package status provides status bar components for the TUI.
package status

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// BannerTimeout is how long an error banner stays visible.
const BannerTimeout = 5 * time.Second

// State represents the current application state for display.
type State string

const (
	StateReady State = "ready"
	StateBusy  State = "busy"
)

// Bar displays application status, transient error banners and
// keybinding hints.
type Bar struct {
	styles   *styles.Styles
	help     help.Model
	hints    []key.Binding
	spinner  spinner.Model
	state    State
	message  string
	document string
	banner   string
	bannerID int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = s.Muted.Bold(true)
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{
		styles:  s,
		help:    h,
		hints:   km.ShortHelp(),
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while the bar is busy.
// Ticks that arrive while idle are dropped, which stops the animation.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateBusy {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Hints give way to the left side when both do not fit.
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		right = ""
		padding = max(0, inner-lipgloss.Width(left))
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the banner, the busy indicator or the document label.
func (s *Bar) renderLeft() string {
	if s.banner != "" {
		return s.styles.Banner.Render(s.banner)
	}
	if s.state == StateBusy {
		msg := s.message
		if msg == "" {
			msg = "Working..."
		}
		return s.spinner.View() + " " + s.styles.Normal.Render(msg)
	}
	if s.document != "" {
		return s.styles.Normal.Render(s.document)
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders the enabled keybinding hints.
func (s *Bar) renderRight() string {
	return s.help.ShortHelpView(s.hints)
}

// SetBusy switches the busy indicator on or off with the given message.
// Turning it on returns the command that starts the spinner.
func (s *Bar) SetBusy(busy bool, message string) tea.Cmd {
	wasBusy := s.state == StateBusy
	s.message = message
	if !busy {
		s.state = StateReady
		return nil
	}
	s.state = StateBusy
	if wasBusy {
		return nil
	}
	return s.spinner.Tick
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the busy message.
func (s *Bar) Message() string {
	return s.message
}

// ShowBanner displays text until BannerTimeout elapses or a newer banner
// replaces it. The returned command delivers the matching BannerExpired.
func (s *Bar) ShowBanner(text string) tea.Cmd {
	s.bannerID++
	s.banner = text
	id := s.bannerID
	return tea.Tick(BannerTimeout, func(time.Time) tea.Msg {
		return messages.BannerExpired{ID: id}
	})
}

// ExpireBanner clears the banner if id names the one on display.
func (s *Bar) ExpireBanner(id int) {
	if id == s.bannerID {
		s.banner = ""
	}
}

// Banner returns the banner on display.
func (s *Bar) Banner() string {
	return s.banner
}

// BannerID returns the ID of the most recent banner.
func (s *Bar) BannerID() int {
	return s.bannerID
}

// SetDocument sets the label shown when idle.
func (s *Bar) SetDocument(name string) {
	s.document = name
}

// SetHints replaces the keybinding hints.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.banner = ""
}
