package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kindex/kin/internal/store"
)

var (
	addType     string
	addContent  string
	addAKA      []string
	addDomains  []string
	addWho      []string
	addWhy      string
	addSource   string
	addAudience string
	addWeight   float64
	addID       string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a node to the graph",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := s.AddNode(store.NodeParams{
			ID:       addID,
			Title:    strings.Join(args, " "),
			Content:  addContent,
			Type:     addType,
			AKA:      addAKA,
			Domains:  addDomains,
			Who:      addWho,
			Why:      addWhy,
			Source:   addSource,
			Audience: addAudience,
			Weight:   addWeight,
			Activity: "cli-add",
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created %s\n", id)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", "concept", "Node type")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Node body text")
	addCmd.Flags().StringSliceVar(&addAKA, "aka", nil, "Synonyms (repeatable)")
	addCmd.Flags().StringSliceVarP(&addDomains, "domain", "d", nil, "Domain tags (repeatable)")
	addCmd.Flags().StringSliceVar(&addWho, "who", nil, "People involved (repeatable)")
	addCmd.Flags().StringVar(&addWhy, "why", "", "Why this was recorded")
	addCmd.Flags().StringVar(&addSource, "source", "", "Provenance source")
	addCmd.Flags().StringVar(&addAudience, "audience", "", "Audience: private, team, org, public")
	addCmd.Flags().Float64VarP(&addWeight, "weight", "w", 0.5, "Importance 0..1")
	addCmd.Flags().StringVar(&addID, "id", "", "Explicit node id (default: generated)")
	rootCmd.AddCommand(addCmd)
}
