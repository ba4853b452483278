package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found on disk, implementations fall back to the
	// embedded default and only fail for unknown names.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is called when prompts have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptDocumentQA answers a question about a single document.
	// The template expects two %s placeholders: the document text, then the question.
	PromptDocumentQA = "document_qa"
)

// DefaultDocumentQAPrompt is the built-in document_qa template.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultDocumentQAPrompt = `You are a helpful assistant answering questions about a single PDF document.
The document text is given below. Each page is followed by a marker of the form [Page N].

Answer using only information from the document. After every statement, cite the page it
comes from in the exact form [p. N], for example [p. 3]. If the document does not contain
the answer, say so.

Document:
%s

Question: %s

Answer:`

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service uses its built-in default prompt.
	SetPromptStore(store PromptStore)
}
