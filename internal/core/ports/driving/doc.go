// Package driving holds the interfaces the front ends (terminal UI, CLI
// commands and the MCP server) call into. internal/core/services implements
// all of them.
package driving
