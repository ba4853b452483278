package domain

// Role identifies the author of a chat message.
type Role string

// Available message roles.
const (
	// RoleUser is a message typed by the user.
	RoleUser Role = "user"

	// RoleModel is a message returned by the completion provider.
	RoleModel Role = "model"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleModel
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// FallbackReply is appended to the conversation log when a completion fails.
const FallbackReply = "An error occurred. Please try again."

// ChatMessage is a single entry of the conversation log.
// Messages are append-only and never mutated once logged.
type ChatMessage struct {
	// Role is the author of the message.
	Role Role `json:"role"`

	// Text is the message body.
	Text string `json:"text"`

	// Citations holds the page markers found in a model reply.
	Citations []string `json:"citations,omitempty"`

	// ReferencedDocumentIDs lists the documents a model reply was generated against.
	ReferencedDocumentIDs []string `json:"referencedDocumentIds,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) ChatMessage {
	return ChatMessage{Role: RoleUser, Text: text}
}

// NewModelMessage creates a model reply, extracting its citations.
func NewModelMessage(text string, documentIDs ...string) ChatMessage {
	msg := ChatMessage{Role: RoleModel, Text: text}
	if citations := ExtractCitations(text); len(citations) > 0 {
		msg.Citations = citations
	}
	if len(documentIDs) > 0 {
		msg.ReferencedDocumentIDs = append([]string(nil), documentIDs...)
	}
	return msg
}

// clone returns a deep copy of the message.
func (m ChatMessage) clone() ChatMessage {
	c := m
	if m.Citations != nil {
		c.Citations = append([]string{}, m.Citations...)
	}
	if m.ReferencedDocumentIDs != nil {
		c.ReferencedDocumentIDs = append([]string{}, m.ReferencedDocumentIDs...)
	}
	return c
}
