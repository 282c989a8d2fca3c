package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	opsTrigger string
	opsOwner   string
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Show active operational nodes: constraints, checkpoints, watches, directives",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		summary, err := s.Operational(opsTrigger, opsOwner)
		if err != nil {
			return err
		}

		if len(summary.Constraints) > 0 {
			fmt.Println("Constraints:")
			for _, n := range summary.Constraints {
				line := "  - " + n.Title
				if t, ok := n.Extra["trigger"].(string); ok && t != "" {
					line += " (trigger: " + t + ")"
				}
				fmt.Println(line)
			}
		}
		if len(summary.Checkpoints) > 0 {
			fmt.Println("Checkpoints:")
			for _, n := range summary.Checkpoints {
				fmt.Println("  - [ ] " + n.Title)
			}
		}
		if len(summary.Watches) > 0 {
			fmt.Println("Watches:")
			for _, n := range summary.Watches {
				line := "  ! " + n.Title
				if e, ok := n.Extra["expires"].(string); ok && e != "" {
					line += " (expires " + e + ")"
				}
				fmt.Println(line)
			}
		}
		if len(summary.Directives) > 0 {
			fmt.Println("Directives:")
			for _, n := range summary.Directives {
				line := "  - " + n.Title
				if st, ok := n.Extra["current_state"].(string); ok && st != "" {
					line += " [" + st + "]"
				}
				fmt.Println(line)
			}
		}
		if len(summary.Constraints)+len(summary.Checkpoints)+
			len(summary.Watches)+len(summary.Directives) == 0 {
			fmt.Println("No active operational nodes.")
		}
		return nil
	},
}

var (
	decayNodeDays int
	decayEdgeDays int
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Apply exponential weight decay to nodes and edges",
	Long: `Decay node and edge weights by half-life since last access. Weights
never drop below the floor, and sub-threshold changes are skipped to
avoid churn. Intended to run periodically (cron or a session hook).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, cfg, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		nodeDays := decayNodeDays
		if nodeDays == 0 {
			nodeDays = cfg.Decay.NodeHalfLifeDays
		}
		edgeDays := decayEdgeDays
		if edgeDays == 0 {
			edgeDays = cfg.Decay.EdgeHalfLifeDays
		}

		changed, err := s.ApplyWeightDecay(nodeDays, edgeDays)
		if err != nil {
			return err
		}
		fmt.Printf("Decayed %d nodes (half-life: nodes %dd, edges %dd)\n",
			changed, nodeDays, edgeDays)
		return nil
	},
}

func init() {
	opsCmd.Flags().StringVar(&opsTrigger, "trigger", "", "Filter by trigger substring")
	opsCmd.Flags().StringVar(&opsOwner, "owner", "", "Filter by owner")
	rootCmd.AddCommand(opsCmd)

	decayCmd.Flags().IntVar(&decayNodeDays, "node-days", 0, "Node half-life in days (default from config)")
	decayCmd.Flags().IntVar(&decayEdgeDays, "edge-days", 0, "Edge half-life in days (default from config)")
	rootCmd.AddCommand(decayCmd)
}
