package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"kindex/kin/internal/store"
)

var (
	listType     string
	listStatus   string
	listAudience string
	listSince    string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List nodes by weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var nodes []store.Node
		if listSince != "" {
			nodes, err = s.NodesChangedSince(listSince)
		} else {
			nodes, err = s.AllNodes(store.NodeFilter{
				Type:     listType,
				Status:   listStatus,
				Audience: listAudience,
				Limit:    listLimit,
			})
		}
		if err != nil {
			return err
		}
		for _, n := range nodes {
			fmt.Printf("%-14s [%s] %s (w=%.2f)\n", n.ID, n.Type, n.Title, n.Weight)
		}
		return nil
	},
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List nodes with no edges",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		nodes, err := s.Orphans()
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			fmt.Println("No orphans.")
			return nil
		}
		for _, n := range nodes {
			fmt.Printf("%-14s [%s] %s\n", n.ID, n.Type, n.Title)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "Filter by node type")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listAudience, "audience", "", "Filter by audience")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only nodes updated at or after this timestamp")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Max nodes")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(orphansCmd)
}
