package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kindex/kin/internal/graph"
)

var (
	similarTop int
	similarMin float64
)

var similarCmd = &cobra.Command{
	Use:   "similar <node>",
	Short: "Find nodes with similar embeddings",
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

		embs, err := s.NodeEmbeddings()
		if err != nil {
			return err
		}
		var target []float32
		for _, e := range embs {
			if e.ID == node.ID {
				target = e.Embedding
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no embedding stored for %q; use `kin embedding set`", node.Title)
		}

		matches := graph.FindSimilar(target, embs, node.ID, similarTop, float32(similarMin))
		if len(matches) == 0 {
			fmt.Println("No similar nodes above threshold.")
			return nil
		}
		for _, m := range matches {
			title := m.ID
			if n, err := s.GetNode(m.ID); err == nil && n != nil {
				title = n.Title
			}
			fmt.Printf("%.3f  %s\n", m.Similarity, title)
		}
		return nil
	},
}

var embeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Manage node embeddings",
}

var embeddingSetCmd = &cobra.Command{
	Use:   "set <node> <json-vector>",
	Short: "Store an embedding vector for a node",
	Args:  cobra.ExactArgs(2),
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
		var vec []float32
		if err := json.Unmarshal([]byte(args[1]), &vec); err != nil {
			return fmt.Errorf("parsing vector: %w", err)
		}
		if len(vec) == 0 {
			return fmt.Errorf("vector is empty")
		}
		if err := s.SetNodeEmbedding(node.ID, vec); err != nil {
			return err
		}
		fmt.Printf("Stored %d-dim embedding for %s\n", len(vec), node.Title)
		return nil
	},
}

func init() {
	similarCmd.Flags().IntVarP(&similarTop, "top", "n", 10, "Max matches")
	similarCmd.Flags().Float64Var(&similarMin, "min", 0.3, "Minimum cosine similarity")
	embeddingCmd.AddCommand(embeddingSetCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(embeddingCmd)
}
