package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var historyJSON bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the conversation",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start a new chat",
	Long:  `Discard all documents and the conversation, and delete the saved session.`,
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errNotConfigured
	}

	messages, err := chatService.History(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(messages)
	}

	if len(messages) == 0 {
		cmd.Println("No messages yet.")
		return nil
	}
	for i, m := range messages {
		if i > 0 {
			cmd.Println()
		}
		label := "You"
		if m.Role == domain.RoleModel {
			label = "Model"
		}
		cmd.Printf("%s: %s\n", label, strings.TrimSpace(m.Text))
		if len(m.Citations) > 0 {
			cmd.Printf("  Citations: %s\n", strings.Join(m.Citations, ", "))
		}
	}
	return nil
}

func runReset(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured
	}
	if err := sessionService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	cmd.Println("Started a new chat.")
	return nil
}
