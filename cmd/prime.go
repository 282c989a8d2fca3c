package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"kindex/kin/internal/retrieve"
)

var (
	primeCodebook bool
	primeTier2    bool
	primeTopic    string
	primeTokens   int
)

var primeCmd = &cobra.Command{
	Use:   "prime",
	Short: "Emit session-start context, or regenerate the prompt-cache codebook",
	Long: `Without flags, prints an abridged context block for the given topic (or
recent activity). With --codebook, regenerates the deterministic node
codebook used as a stable prompt-cache prefix and stores it in meta.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if primeCodebook {
			text, hash, err := retrieve.GenerateCodebook(s, cfg.Codebook.MinWeight)
			if err != nil {
				return err
			}

			oldHash, _, err := s.GetMeta("codebook_hash")
			if err != nil {
				return err
			}
			if err := s.SetMeta("codebook_text", text); err != nil {
				return err
			}
			if err := s.SetMeta("codebook_hash", hash); err != nil {
				return err
			}
			if err := s.SetMeta("codebook_generated_at", time.Now().Format("2006-01-02T15:04:05")); err != nil {
				return err
			}
			stats, err := s.GraphStats()
			if err != nil {
				return err
			}
			if err := s.SetMeta("codebook_node_count", fmt.Sprint(stats.Nodes)); err != nil {
				return err
			}

			entries := strings.Count(text, "\n#")
			switch {
			case oldHash == hash:
				fmt.Printf("Codebook unchanged (hash: %s)\n", hash)
			case oldHash != "":
				fmt.Printf("Codebook updated: %s (was: %s)\n", hash, oldHash)
			default:
				fmt.Printf("Codebook generated: %s\n", hash)
			}
			fmt.Printf("%d entries, ~%d tokens\n", entries, len(text)/4)
			return nil
		}

		engine := retrieve.NewEngine(s)
		topic := primeTopic
		if topic == "" {
			recent, err := s.RecentNodes(3)
			if err != nil {
				return err
			}
			var titles []string
			for _, n := range recent {
				titles = append(titles, n.Title)
			}
			topic = strings.Join(titles, " ")
		}
		if topic == "" {
			fmt.Println("Empty graph; nothing to prime.")
			return nil
		}

		results, err := engine.Search(topic, retrieve.DefaultSearchOptions())
		if err != nil {
			return err
		}

		if primeTier2 {
			codebook, ok, err := s.GetMeta("codebook_text")
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no codebook stored; run `kin prime --codebook` first")
			}
			predicted, err := retrieve.PredictTier2(s, results, cfg.Defaults.TopK)
			if err != nil {
				return err
			}
			budget := primeTokens
			if budget <= 0 {
				budget = cfg.Codebook.Tier2MaxToken
			}
			fmt.Print(retrieve.FormatTier2(predicted, retrieve.BuildCodebookIndex(codebook), budget))
			return nil
		}

		block, err := engine.FormatContextBlock(results, topic, "", primeTokens)
		if err != nil {
			return err
		}
		fmt.Print(block)
		return nil
	},
}

func init() {
	primeCmd.Flags().BoolVar(&primeCodebook, "codebook", false, "Regenerate the prompt-cache codebook")
	primeCmd.Flags().BoolVar(&primeTier2, "tier2", false, "Render predicted nodes against the stored codebook")
	primeCmd.Flags().StringVar(&primeTopic, "topic", "", "Topic to prime on (default: recent nodes)")
	primeCmd.Flags().IntVar(&primeTokens, "tokens", 0, "Approximate token budget")
	rootCmd.AddCommand(primeCmd)
}
