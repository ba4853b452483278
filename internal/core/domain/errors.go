package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the completion provider is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Upload Errors.

	// ErrInvalidFileType indicates neither the media type nor the file
	// extension of an upload names a supported format.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrExtraction indicates the uploaded bytes could not be parsed.
	ErrExtraction = errors.New("text extraction failed")

	// Conversation Errors.

	// ErrCompletion indicates the completion provider failed to answer.
	ErrCompletion = errors.New("completion failed")

	// ErrNoActiveDocument indicates a question was asked before any upload.
	ErrNoActiveDocument = errors.New("no active document")

	// ErrSendInProgress indicates a question is already awaiting its answer.
	ErrSendInProgress = errors.New("send in progress")

	// Persistence Errors.

	// ErrCorruptSnapshot indicates the persisted session could not be decoded.
	ErrCorruptSnapshot = errors.New("corrupt session snapshot")
)

// User-facing messages for the error kinds the UI reports.
const (
	MsgInvalidFileType = "Please upload a PDF file."
	MsgExtraction      = "Failed to process the PDF. Please try another file."
	MsgNoDocument      = "Upload a PDF before asking questions."
	MsgGeneric         = "Something went wrong. Please try again."
)

// UserMessage converts an error into the single string shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidFileType):
		return MsgInvalidFileType
	case errors.Is(err, ErrExtraction):
		return MsgExtraction
	case errors.Is(err, ErrCompletion), errors.Is(err, ErrLLMUnavailable):
		return FallbackReply
	case errors.Is(err, ErrNoActiveDocument):
		return MsgNoDocument
	default:
		return MsgGeneric
	}
}
