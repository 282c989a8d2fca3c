package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kindex/kin/internal/graph"
)

var (
	graphJSON   bool
	graphTopN   int
	graphMethod string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Graph analytics: stats, centrality, communities, bridges, trailheads",
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Topology summary: components, density, orphans, hubs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			report := graph.ComputeTopology(v, 10, graphTopN)
			if graphJSON {
				return printJSON(report)
			}
			fmt.Printf("Nodes: %d  Edges: %d  Density: %.4f  Avg degree: %.2f\n",
				report.TotalNodes, report.TotalEdges, report.Density, report.AvgDegree)
			fmt.Printf("Components: %d (largest %d, smallest %d)  Orphans: %d\n",
				report.NumComponents, report.LargestComponent, report.SmallestComponent, report.OrphanCount)
			if len(report.Hubs) > 0 {
				fmt.Println("\nHubs:")
				for _, h := range report.Hubs {
					fmt.Printf("  %-30s deg=%d (in %d, out %d)\n", h.Title, h.Degree, h.InDegree, h.OutDegree)
				}
			}
			return nil
		})
	},
}

var graphCentralityCmd = &cobra.Command{
	Use:   "centrality",
	Short: "Rank nodes by betweenness, degree, or closeness",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			var scores map[string]float64
			switch graphMethod {
			case "betweenness":
				scores = graph.Betweenness(v)
			case "degree":
				scores = graph.DegreeCentrality(v)
			case "closeness":
				scores = graph.Closeness(v)
			default:
				return fmt.Errorf("unknown method %q (want betweenness, degree, or closeness)", graphMethod)
			}
			ranked := graph.TopCentral(v, scores, graphTopN)
			if graphJSON {
				return printJSON(ranked)
			}
			for i, r := range ranked {
				fmt.Printf("%2d. %-30s %.4f\n", i+1, r.Title, r.Score)
			}
			return nil
		})
	},
}

var graphCommunitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Detect clusters by greedy modularity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			comms := graph.Communities(v, 2)
			if graphJSON {
				return printJSON(comms)
			}
			for _, c := range comms {
				titles := make([]string, 0, len(c.Members))
				for _, id := range c.Members {
					if n, ok := v.Nodes[id]; ok {
						titles = append(titles, n.Title)
					}
				}
				fmt.Printf("Community %d (%d nodes): %s\n", c.ID, c.Size, strings.Join(titles, ", "))
			}
			return nil
		})
	},
}

var graphBridgesCmd = &cobra.Command{
	Use:   "bridges",
	Short: "Rank structural weak-point edges by betweenness",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			report := graph.ComputeBridges(v, graphTopN)
			if graphJSON {
				return printJSON(report)
			}
			for _, e := range report.BridgeEdges {
				marker := ""
				if e.Cut {
					marker = " [cut]"
				}
				fmt.Printf("%.4f  %s ↔ %s%s\n", e.Betweenness, e.FromTitle, e.ToTitle, marker)
			}
			if len(report.ArticulationPoints) > 0 {
				fmt.Println("\nArticulation points:")
				for _, ap := range report.ArticulationPoints {
					fmt.Printf("  %s (deg=%d)\n", ap.Title, ap.Degree)
				}
			}
			return nil
		})
	},
}

var graphTrailheadsCmd = &cobra.Command{
	Use:   "trailheads",
	Short: "High-leverage entry points: central and richly connected outward",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			heads := graph.Trailheads(v, graphTopN)
			if graphJSON {
				return printJSON(heads)
			}
			for i, h := range heads {
				fmt.Printf("%2d. %-30s score=%.4f (bc=%.4f, out=%d)\n",
					i+1, h.Title, h.Score, h.Betweenness, h.OutDegree)
			}
			return nil
		})
	},
}

var graphHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Composite structure health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(func(v *graph.View) error {
			report := graph.Analyze(v, graph.DefaultConfig())
			if graphJSON {
				return printJSON(report)
			}
			fmt.Printf("Health: %.2f\n", report.HealthScore)
			fmt.Printf("  connectivity %.2f | components %.2f | fragility %.2f\n",
				report.HealthBreakdown.Connectivity,
				report.HealthBreakdown.Components,
				report.HealthBreakdown.Fragility)
			return nil
		})
	},
}

// withView opens the store, builds a graph view, and hands it to fn.
func withView(fn func(*graph.View) error) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := graph.FromStore(s)
	if err != nil {
		return fmt.Errorf("loading graph: %w", err)
	}
	return fn(view)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	graphCmd.PersistentFlags().BoolVar(&graphJSON, "json", false, "Output as JSON")
	graphCmd.PersistentFlags().IntVarP(&graphTopN, "top", "n", 20, "Max results")
	graphCentralityCmd.Flags().StringVarP(&graphMethod, "method", "m", "betweenness", "Centrality method")
	graphCmd.AddCommand(graphStatsCmd, graphCentralityCmd, graphCommunitiesCmd,
		graphBridgesCmd, graphTrailheadsCmd, graphHealthCmd)
	rootCmd.AddCommand(graphCmd)
}
