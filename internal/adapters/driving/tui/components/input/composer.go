package input

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Composer height bounds, in visual lines.
const (
	MinComposerHeight = 1
	MaxComposerHeight = 6
)

// Composer is the multi-line question input. Its height follows its
// content between MinComposerHeight and MaxComposerHeight lines.
//
// The textarea never inserts a newline on enter; the owner treats enter
// as submit and the keymap's Newline binding inserts line breaks.
type Composer struct {
	textarea textarea.Model
	styles   *styles.Styles
	width    int
}

// NewComposer creates a new question input component.
func NewComposer(s *styles.Styles, km *keymap.KeyMap) *Composer {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask a question about the document..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(km.Newline.Keys()...))
	ta.SetHeight(MinComposerHeight)
	ta.SetWidth(50)
	ta.Focus()

	return &Composer{
		textarea: ta,
		styles:   s,
		width:    50,
	}
}

// Init initialises the composer.
func (c *Composer) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards the message to the textarea and resizes to fit.
func (c *Composer) Update(msg tea.Msg) (*Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	c.resize()
	return c, cmd
}

// View renders the composer.
func (c *Composer) View() string {
	return c.styles.InputField.Render(c.textarea.View())
}

// resize sets the textarea height to the number of visual lines its
// content occupies, clamped to the composer bounds.
func (c *Composer) resize() {
	c.textarea.SetHeight(VisualLines(c.textarea.Value(), c.textarea.Width()))
}

// VisualLines counts the rows text occupies in a textarea of the given
// width, clamped to the composer bounds.
func VisualLines(text string, width int) int {
	width = max(width, 1)
	n := 0
	for _, line := range strings.Split(text, "\n") {
		n += wrappedRows([]rune(line), width)
	}
	return max(MinComposerHeight, min(n, MaxComposerHeight))
}

// wrappedRows follows the textarea's soft wrap: whole words move to the
// next row, a word wider than the row is broken, and a row filled to the
// edge is followed by one more row for the cursor.
func wrappedRows(line []rune, width int) int {
	var (
		rows   = 1
		row    int // width of the current row
		word   int // width of the pending word
		last   int // width of the pending word's last rune
		spaces int
	)
	for _, r := range line {
		if unicode.IsSpace(r) {
			spaces++
		} else {
			last = lipgloss.Width(string(r))
			word += last
		}

		switch {
		case spaces > 0:
			if row+word+spaces > width {
				rows++
				row = 0
			}
			row += word + spaces
			word, spaces = 0, 0
		case word+last > width:
			if row > 0 {
				rows++
				row = 0
			}
			row += word
			word = 0
		}
	}
	if row+word+spaces >= width {
		rows++
	}
	return rows
}

// Value returns the current input.
func (c *Composer) Value() string {
	return c.textarea.Value()
}

// SetValue replaces the input and resizes to fit.
func (c *Composer) SetValue(value string) {
	c.textarea.SetValue(value)
	c.resize()
}

// Height returns the number of visible input lines.
func (c *Composer) Height() int {
	return c.textarea.Height()
}

// Focus sets focus on the composer.
func (c *Composer) Focus() tea.Cmd {
	return c.textarea.Focus()
}

// Blur removes focus from the composer.
func (c *Composer) Blur() {
	c.textarea.Blur()
}

// Focused returns whether the composer is focused.
func (c *Composer) Focused() bool {
	return c.textarea.Focused()
}

// SetWidth sets the outer width of the composer, border included.
func (c *Composer) SetWidth(width int) {
	c.width = width
	inner := width - c.styles.InputField.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	c.textarea.SetWidth(inner)
	c.resize()
}

// Width returns the current outer width.
func (c *Composer) Width() int {
	return c.width
}

// Reset clears the input and shrinks it back to one line.
func (c *Composer) Reset() {
	c.textarea.Reset()
	c.resize()
}
