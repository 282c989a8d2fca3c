package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportAudience string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audience-scoped nodes as JSON",
	Long: `Export the subgraph visible to an audience. Scopes widen monotonically:
private sees everything, team sees team+org+public, org sees org+public,
public sees only public. Edges pointing outside the exported set are
pruned so the output never leaks a reference to a hidden node.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		nodes, err := s.Export(exportAudience)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(nodes); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d nodes exported for audience %q\n", len(nodes), exportAudience)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportAudience, "audience", "a", "private", "Audience: private, team, org, public")
	rootCmd.AddCommand(exportCmd)
}
