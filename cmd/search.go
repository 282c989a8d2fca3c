package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kindex/kin/internal/retrieve"
)

var (
	searchTopK     int
	searchNoExpand bool
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Hybrid search: full-text + graph expansion, fused with RRF",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		engine := retrieve.NewEngine(s)
		results, err := engine.Search(strings.Join(args, " "), retrieve.SearchOptions{
			TopK:        searchTopK,
			ExpandGraph: !searchNoExpand,
		})
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%2d. [%s] %s (score=%.4f, w=%.2f)\n",
				i+1, r.Type, r.Title, r.RRFScore, r.Weight)
			if r.Content != "" {
				snippet := r.Content
				if len(snippet) > 120 {
					snippet = snippet[:120] + "…"
				}
				fmt.Printf("    %s\n", snippet)
			}
			if len(r.EdgesOut) > 0 {
				var links []string
				for _, e := range r.EdgesOut {
					name := e.NeighborTitle
					if name == "" {
						name = e.ToID
					}
					links = append(links, fmt.Sprintf("%s[%s]", name, e.Type))
				}
				fmt.Printf("    → %s\n", strings.Join(links, ", "))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top", "n", 10, "Max results")
	searchCmd.Flags().BoolVar(&searchNoExpand, "no-expand", false, "Disable graph expansion")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
}
