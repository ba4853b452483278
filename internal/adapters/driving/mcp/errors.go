// Package mcp provides an MCP (Model Context Protocol) server adapter for docchat.
// It lets AI assistants upload PDFs and ask questions about them through the
// same session the terminal UI uses.
package mcp

import "errors"

// Errors returned when required ports are missing.
var (
	ErrMissingDocumentService = errors.New("mcp: document service is required")
	ErrMissingChatService     = errors.New("mcp: chat service is required")
	ErrMissingSessionService  = errors.New("mcp: session service is required")
)
