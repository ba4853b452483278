package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List documents in the session",
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

var useCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a document the active one",
	Long: `Switch the document that new questions are asked about. The conversation is kept.
Accepts a full id or a unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(useCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	docs, err := documentService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		cmd.Println("No documents. Run 'docchat upload <file>' to add one.")
		return nil
	}

	activeID := ""
	if active, err := documentService.Active(ctx); err == nil {
		activeID = active.ID
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tUPLOADED\tCHARS")
	for _, d := range docs {
		marker := ""
		if d.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			marker, d.ID, d.Name, d.UploadedAt.Local().Format("2006-01-02 15:04"), len(d.Text))
	}
	return w.Flush()
}

func runUse(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	ctx := cmd.Context()
	docs, err := documentService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	doc, err := matchDocument(docs, args[0])
	if err != nil {
		return err
	}
	if err := documentService.SetActive(ctx, doc.ID); err != nil {
		return err
	}

	cmd.Printf("Active document: %s (%s)\n", doc.Name, doc.ID)
	return nil
}

var errAmbiguousID = errors.New("ambiguous document id")

// matchDocument resolves an exact id or a unique id prefix.
func matchDocument(docs []domain.Document, ref string) (domain.Document, error) {
	var matches []domain.Document
	for _, d := range docs {
		if d.ID == ref {
			return d, nil
		}
		if len(ref) > 0 && len(d.ID) >= len(ref) && d.ID[:len(ref)] == ref {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Document{}, fmt.Errorf("%w: document %s", domain.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return domain.Document{}, fmt.Errorf("%w: %s matches %d documents", errAmbiguousID, ref, len(matches))
	}
}
