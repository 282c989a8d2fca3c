package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"kindex/kin/internal/store"
)

var (
	activityLimit int
	activitySince string
	activityActor string
	activityKind  string
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the change log",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		switch {
		case activityActor != "":
			log, err := s.ActivityByActor(activityActor, activityLimit)
			if err != nil {
				return err
			}
			printActivity(log)
		case activitySince != "":
			log, err := s.ActivitySince(activitySince, activityKind)
			if err != nil {
				return err
			}
			printActivity(log)
		default:
			log, err := s.RecentActivity(activityLimit)
			if err != nil {
				return err
			}
			printActivity(log)
		}
		return nil
	},
}

func printActivity(log []store.ActivityEntry) {
	for _, e := range log {
		title := e.TargetTitle
		if title == "" {
			title = e.TargetID
		}
		fmt.Printf("%s  %-12s %s\n", e.Timestamp, e.Action, title)
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Store summary: node/edge counts, orphans, type breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.GraphStats()
		if err != nil {
			return err
		}
		fmt.Printf("Nodes: %d\nEdges: %d\nOrphans: %d\n", stats.Nodes, stats.Edges, stats.Orphans)
		if len(stats.Types) > 0 {
			types := make([]string, 0, len(stats.Types))
			for t := range stats.Types {
				types = append(types, t)
			}
			sort.Strings(types)
			fmt.Println("\nBy type:")
			for _, t := range types {
				fmt.Printf("  %-12s %d\n", t, stats.Types[t])
			}
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "Max entries")
	activityCmd.Flags().StringVar(&activitySince, "since", "", "Entries since ISO timestamp")
	activityCmd.Flags().StringVar(&activityActor, "actor", "", "Filter by actor")
	activityCmd.Flags().StringVar(&activityKind, "action", "", "Filter by action (with --since)")
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(statsCmd)
}
