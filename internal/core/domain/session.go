package domain

// DefaultSessionName is the label of a session that has no documents yet.
const DefaultSessionName = "New Chat"

// Session is the full state of one chat: its documents, the conversation
// log and the session name.
//
// Invariants maintained by the methods below:
//   - ActiveID is empty when Documents is empty
//   - ActiveID names a member of Documents otherwise
//   - the first document added to an empty session clears the log and
//     names the session after the document
type Session struct {
	// Name is the human-readable session label.
	Name string

	// Documents holds uploaded documents in upload order.
	Documents []Document

	// ConversationLog holds exchanged messages in order.
	ConversationLog []ChatMessage

	// ActiveID is the document targeted by new questions.
	ActiveID string
}

// NewSession returns an empty session with the default name.
func NewSession() *Session {
	return &Session{Name: DefaultSessionName}
}

// IsEmpty reports whether the session holds neither documents nor messages.
func (s *Session) IsEmpty() bool {
	return len(s.Documents) == 0 && len(s.ConversationLog) == 0
}

// AddDocument appends a document and makes it active.
// When it is the first document, the conversation log is cleared and the
// session is renamed after the document.
func (s *Session) AddDocument(doc Document) {
	if len(s.Documents) == 0 {
		s.ConversationLog = nil
		s.Name = doc.BaseName()
	}
	s.Documents = append(s.Documents, doc)
	s.ActiveID = doc.ID
}

// SetActive points the session at the document with the given id.
// Returns false, leaving the active document unchanged, when no such
// document exists. The conversation log is never touched.
func (s *Session) SetActive(id string) bool {
	if _, ok := s.Document(id); !ok {
		return false
	}
	s.ActiveID = id
	return true
}

// Document looks up a document by id.
func (s *Session) Document(id string) (Document, bool) {
	for i := range s.Documents {
		if s.Documents[i].ID == id {
			return s.Documents[i], true
		}
	}
	return Document{}, false
}

// ActiveDocument returns the active document, if any.
func (s *Session) ActiveDocument() (Document, bool) {
	if s.ActiveID == "" {
		return Document{}, false
	}
	return s.Document(s.ActiveID)
}

// Append adds a message to the end of the conversation log.
func (s *Session) Append(msg ChatMessage) {
	s.ConversationLog = append(s.ConversationLog, msg.clone())
}

// Reset clears documents, the active pointer and the log, and restores
// the default name.
func (s *Session) Reset() {
	s.Name = DefaultSessionName
	s.Documents = nil
	s.ConversationLog = nil
	s.ActiveID = ""
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() Session {
	c := Session{
		Name:     s.Name,
		ActiveID: s.ActiveID,
	}
	if s.Documents != nil {
		c.Documents = append([]Document{}, s.Documents...)
	}
	if s.ConversationLog != nil {
		c.ConversationLog = make([]ChatMessage, len(s.ConversationLog))
		for i := range s.ConversationLog {
			c.ConversationLog[i] = s.ConversationLog[i].clone()
		}
	}
	return c
}

// Snapshot returns the persisted form of the session.
func (s *Session) Snapshot() *Snapshot {
	c := s.Clone()
	snap := &Snapshot{
		Documents:       c.Documents,
		ConversationLog: c.ConversationLog,
		SessionName:     c.Name,
	}
	if snap.Documents == nil {
		snap.Documents = []Document{}
	}
	if snap.ConversationLog == nil {
		snap.ConversationLog = []ChatMessage{}
	}
	return snap
}

// Snapshot is the serialised session written to the persistence slot.
// The active document is not part of the snapshot.
type Snapshot struct {
	Documents       []Document    `json:"pdfs"`
	ConversationLog []ChatMessage `json:"chatHistory"`
	SessionName     string        `json:"sessionName"`
}

// Validate checks that a decoded snapshot is usable.
func (s *Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Documents))
	for i := range s.Documents {
		id := s.Documents[i].ID
		if id == "" {
			return ErrCorruptSnapshot
		}
		if _, dup := seen[id]; dup {
			return ErrCorruptSnapshot
		}
		seen[id] = struct{}{}
	}
	for i := range s.ConversationLog {
		if !s.ConversationLog[i].Role.IsValid() {
			return ErrCorruptSnapshot
		}
	}
	return nil
}

// SessionFromSnapshot rebuilds a session from its persisted form.
// The most recently uploaded document becomes active. An empty name
// falls back to the default label.
func SessionFromSnapshot(snap *Snapshot) *Session {
	s := NewSession()
	if snap == nil {
		return s
	}
	if snap.SessionName != "" {
		s.Name = snap.SessionName
	}
	if len(snap.Documents) > 0 {
		s.Documents = append([]Document{}, snap.Documents...)
		s.ActiveID = s.Documents[len(s.Documents)-1].ID
	}
	for i := range snap.ConversationLog {
		s.Append(snap.ConversationLog[i])
	}
	return s
}
