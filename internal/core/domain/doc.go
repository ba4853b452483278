// Package domain holds the docchat entities and the rules that keep a
// session consistent.
//
// The types:
//
//   - Document: an uploaded PDF and its page-marked text
//   - ChatMessage: one turn of the conversation, with citations on replies
//   - Session: the documents, the active one, the log and the session name
//   - Snapshot: the JSON form a Session is persisted as
//   - RawDocument: file bytes and media type on their way to an extractor
//   - AppSettings: provider, model and storage choices
//
// Every other package imports domain; domain imports only the standard
// library.
package domain
