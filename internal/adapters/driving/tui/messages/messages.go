// Package messages holds the Bubbletea messages passed between the TUI
// views and the app model.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the transcript and question input.
	ViewChat ViewType = iota
	// ViewUpload is the file path prompt.
	ViewUpload
	// ViewSwitcher lists the session documents for selection.
	ViewSwitcher
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewUpload:
		return "upload"
	case ViewSwitcher:
		return "switcher"
	default:
		return "unknown"
	}
}

// SessionChanged carries a copy of the session after a mutation.
type SessionChanged struct {
	Session domain.Session
}

// AnswerReceived carries the outcome of a send.
// Reply is nil when the completion failed or the input was ignored.
type AnswerReceived struct {
	Reply *domain.ChatMessage
	Err   error
}

// UploadRequested is a command to upload the file at Path.
type UploadRequested struct {
	Path string
}

// DocumentUploaded carries the outcome of an upload.
type DocumentUploaded struct {
	Path     string
	Document *domain.Document
	Err      error
}

// DocumentSelected signals a document was picked in the switcher.
type DocumentSelected struct {
	ID string
}

// SessionReset signals that the session was cleared.
type SessionReset struct {
	Err error
}

// BannerExpired clears the status banner with the matching ID.
type BannerExpired struct {
	ID int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
