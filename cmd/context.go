package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kindex/kin/internal/graph"
	"kindex/kin/internal/retrieve"
)

var (
	contextTier   string
	contextTokens int
	contextHops   int
	contextMinStr float64
)

var contextCmd = &cobra.Command{
	Use:   "context <topic>",
	Short: "Build a token-budgeted context block for a topic",
	Long: `Run hybrid search on the topic and render the results at one of five
tiers: full (~4000 tokens), abridged (~1500), summarized (~750),
executive (~200), index (~100). Without --tier, the tier is
auto-selected from --tokens.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		engine := retrieve.NewEngine(s)
		topic := strings.Join(args, " ")
		results, err := engine.Search(topic, retrieve.SearchOptions{
			TopK:        cfg.Defaults.TopK,
			ExpandGraph: true,
		})
		if err != nil {
			return err
		}

		block, err := engine.FormatContextBlock(results, topic, contextTier, contextTokens)
		if err != nil {
			return err
		}
		fmt.Print(block)
		return nil
	},
}

var walkCmd = &cobra.Command{
	Use:   "walk <node>",
	Short: "Weighted graph expansion from a start node",
	Long: `Expand outward from a node along outgoing edges. Path strength is the
product of edge weights; paths below --min-strength are pruned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		start, err := resolveNode(s, args[0])
		if err != nil {
			return err
		}

		view, err := graph.FromStore(s)
		if err != nil {
			return err
		}
		opts := graph.DefaultTraverseOptions()
		if contextHops > 0 {
			opts.MaxDepth = contextHops
		}
		if contextMinStr > 0 {
			opts.MinStrength = contextMinStr
		}

		hops := graph.Traverse(view, start.ID, opts)
		for _, h := range hops {
			indent := strings.Repeat("  ", h.Depth)
			if h.Depth == 0 {
				fmt.Printf("%s (start)\n", h.Title)
				continue
			}
			fmt.Printf("%s→ %s [%s, strength=%.2f]\n", indent, h.Title, h.Via, h.Strength)
		}
		return nil
	},
}

func init() {
	contextCmd.Flags().StringVar(&contextTier, "tier", "", "Context tier (default: auto)")
	contextCmd.Flags().IntVar(&contextTokens, "tokens", 0, "Approximate token budget")
	rootCmd.AddCommand(contextCmd)

	walkCmd.Flags().IntVar(&contextHops, "hops", 2, "Max traversal depth")
	walkCmd.Flags().Float64Var(&contextMinStr, "min-strength", 0.2, "Prune paths below this strength")
	rootCmd.AddCommand(walkCmd)
}
