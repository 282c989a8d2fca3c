package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <node>",
	Short: "Show one node: content, provenance, edges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		node, err := resolveNode(s, args[0])
		if err != nil {
			return err
		}

		if showJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(node)
		}

		fmt.Printf("# %s\n", node.Title)
		fmt.Printf("id: %s | type: %s | weight: %.2f | status: %s | audience: %s\n",
			node.ID, node.Type, node.Weight, node.Status, node.Audience)
		if len(node.AKA) > 0 {
			fmt.Printf("aka: %s\n", strings.Join(node.AKA, ", "))
		}
		if len(node.Domains) > 0 {
			fmt.Printf("domains: %s\n", strings.Join(node.Domains, ", "))
		}
		if node.Content != "" {
			fmt.Printf("\n%s\n", node.Content)
		}

		var prov []string
		if len(node.Who) > 0 {
			prov = append(prov, "who: "+strings.Join(node.Who, ", "))
		}
		if node.When != "" {
			prov = append(prov, "when: "+node.When)
		}
		if node.Activity != "" {
			prov = append(prov, "via: "+node.Activity)
		}
		if node.Source != "" {
			prov = append(prov, "source: "+node.Source)
		}
		if len(prov) > 0 {
			fmt.Printf("\nProvenance: %s\n", strings.Join(prov, " | "))
		}

		out, err := s.EdgesFrom(node.ID)
		if err != nil {
			return err
		}
		if len(out) > 0 {
			fmt.Println("\nOutgoing:")
			for _, e := range out {
				name := e.NeighborTitle
				if name == "" {
					name = e.ToID
				}
				fmt.Printf("  → %s [%s, w=%.2f]\n", name, e.Type, e.Weight)
			}
		}

		in, err := s.EdgesTo(node.ID)
		if err != nil {
			return err
		}
		if len(in) > 0 {
			fmt.Println("\nIncoming:")
			for _, e := range in {
				name := e.NeighborTitle
				if name == "" {
					name = e.FromID
				}
				fmt.Printf("  ← %s [%s, w=%.2f]\n", name, e.Type, e.Weight)
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(showCmd)
}
