package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the session to MCP clients",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run a Model Context Protocol server over the saved session, so an assistant
such as Claude Desktop can upload PDFs and ask about them. It shares the
session with the terminal UI.

Tools: upload_document, ask, list_documents, set_active_document,
reset_session.
Resources: docchat://session, docchat://history, docchat://documents/{id}
(use "active" as the id for the active document).

The server speaks JSON-RPC over stdio unless --port is given, in which case
it serves streamable HTTP, for example for the MCP Inspector.

  docchat mcp serve
  docchat mcp serve --port 8080

Claude Desktop (claude_desktop_config.json):

  {"mcpServers": {"docchat": {"command": "/path/to/docchat", "args": ["mcp", "serve"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "interface to bind with --port")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Document: documentService,
		Chat:     chatService,
		Session:  sessionService,
	}, version)
	if err != nil {
		return err
	}

	if mcpPort == 0 {
		return server.Run(cmd.Context())
	}

	addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
	// stdout stays clean for clients that pipe it.
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s/\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
