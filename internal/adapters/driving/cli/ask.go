package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the active document",
	Long: `Send a question about the active document to the configured model and print
the answer. The exchange is added to the session's conversation. A blank
question does nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errNotConfigured
	}

	question := strings.Join(args, " ")
	reply, err := chatService.Send(cmd.Context(), question)
	if err != nil {
		return userError(err)
	}
	// A blank question is ignored, as in the TUI.
	if reply == nil {
		return nil
	}

	cmd.Println(reply.Text)
	if len(reply.Citations) > 0 {
		cmd.Printf("\nCitations: %s\n", strings.Join(reply.Citations, ", "))
	}
	return nil
}

// userError replaces known domain errors with their user-facing message,
// keeping the original error in the chain.
func userError(err error) error {
	msg := domain.UserMessage(err)
	if msg == domain.MsgGeneric {
		return err
	}
	return fmt.Errorf("%s (%w)", msg, err)
}
