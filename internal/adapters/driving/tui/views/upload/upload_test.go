package upload

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
)

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Cancellable())
	assert.NotNil(t, v.Init())
}

func TestView_EnterRequestsUpload(t *testing.T) {
	v := NewView(nil, nil)
	typeText(v, "/tmp/report.pdf")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.UploadRequested{Path: "/tmp/report.pdf"}, cmd())
	assert.Empty(t, v.Value(), "input is cleared after submit")
}

func TestView_EnterWithBlankPathIgnored(t *testing.T) {
	v := NewView(nil, nil)
	typeText(v, "   ")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_EscWithoutChat(t *testing.T) {
	v := NewView(nil, nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
}

func TestView_EscReturnsToChat(t *testing.T) {
	v := NewView(nil, nil)
	v.SetCancellable(true)
	typeText(v, "/tmp/half")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())
	assert.Empty(t, v.Value())
}

func TestView_View(t *testing.T) {
	v := NewView(nil, nil)
	v.SetDimensions(80, 24)

	view := v.View()
	assert.Contains(t, view, "Upload a PDF")
	assert.NotContains(t, view, "esc")

	v.SetCancellable(true)
	assert.Contains(t, v.View(), "esc: back to chat")
}
