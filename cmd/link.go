package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kindex/kin/internal/store"
)

var (
	linkType   string
	linkWeight float64
	linkOneWay bool
)

var linkCmd = &cobra.Command{
	Use:   "link <from> <to>",
	Short: "Create a weighted edge between two nodes",
	Long: `Create a directed edge between two existing nodes. Unless --one-way is
given, a reverse edge at reduced weight is created too.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		from, err := resolveNode(s, args[0])
		if err != nil {
			return err
		}
		to, err := resolveNode(s, args[1])
		if err != nil {
			return err
		}

		err = s.AddEdge(store.EdgeParams{
			From:           from.ID,
			To:             to.ID,
			Type:           linkType,
			Weight:         linkWeight,
			Provenance:     "cli-link",
			Unidirectional: linkOneWay,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Linked %s → %s [%s, w=%.2f]\n", from.Title, to.Title, linkType, linkWeight)
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVarP(&linkType, "type", "t", "relates_to", "Edge type")
	linkCmd.Flags().Float64VarP(&linkWeight, "weight", "w", 0.5, "Edge strength 0..1")
	linkCmd.Flags().BoolVar(&linkOneWay, "one-way", false, "Skip the automatic reverse edge")
	rootCmd.AddCommand(linkCmd)
}
