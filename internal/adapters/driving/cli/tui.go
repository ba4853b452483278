package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docchat.

With no documents the UI asks for the path of a PDF to upload. Once a
document is loaded, type a question and press enter.

Controls:
  Enter      - Send question
  Alt+Enter  - Insert a newline
  PgUp/PgDn  - Scroll the conversation
  Ctrl+U     - Upload another PDF
  Ctrl+O     - Switch document (when more than one is loaded)
  Ctrl+N     - New chat (discard documents and conversation)
  Ctrl+C     - Quit`,
	Annotations: map[string]string{annotationInteractive: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// The alternate screen swallows panics; keep the trace on stderr.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "docchat crashed: %v\n\n%s\n", r, debug.Stack())
			err = fmt.Errorf("tui: %v", r)
		}
	}()

	if sessionService == nil || documentService == nil || chatService == nil {
		return errNotConfigured
	}

	app, err := tui.NewApp(tui.NewPorts(sessionService, documentService, chatService))
	if err != nil {
		return fmt.Errorf("start tui: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.WithContext(ctx).Run()
}
