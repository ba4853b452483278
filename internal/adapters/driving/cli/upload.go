package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/extractors"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a PDF and make it the active document",
	Long: `Extract the text of a PDF and add it to the session as the active document.

The first document of a session starts a fresh conversation named after the file.
The file type is detected from its content; files that are neither PDF by content
nor by .pdf extension are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	raw, err := extractors.ReadFile(args[0])
	if err != nil {
		return err
	}

	doc, err := documentService.Upload(cmd.Context(), raw)
	if err != nil {
		return userError(err)
	}

	cmd.Printf("Uploaded %s (%s)\n", doc.Name, doc.ID)
	cmd.Printf("Extracted %d characters. It is now the active document.\n", len(doc.Text))
	return nil
}
