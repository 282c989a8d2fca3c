package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"kindex/kin/internal/store"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Manage suggested edges",
}

var suggestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending edge suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		pending, err := s.PendingSuggestions(suggestLimit)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending suggestions.")
			return nil
		}
		for _, sg := range pending {
			fmt.Printf("%4d. %s ↔ %s\n", sg.ID, sg.ConceptA, sg.ConceptB)
			if sg.Reason != "" {
				fmt.Printf("      %s\n", sg.Reason)
			}
		}
		return nil
	},
}

var suggestAddCmd = &cobra.Command{
	Use:   "add <concept-a> <concept-b> [reason]",
	Short: "Record a suggested connection between two concepts",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		reason := ""
		if len(args) == 3 {
			reason = args[2]
		}
		id, err := s.AddSuggestion(args[0], args[1], reason, "cli")
		if err != nil {
			return err
		}
		fmt.Printf("Suggestion %d recorded\n", id)
		return nil
	},
}

var suggestAcceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept a suggestion and create the edge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveSuggestion(args[0], "accepted")
	},
}

var suggestRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a suggestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveSuggestion(args[0], "rejected")
	},
}

// resolveSuggestion marks a suggestion accepted or rejected; accepting
// also links the two concepts when both exist.
func resolveSuggestion(rawID, status string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid suggestion id %q", rawID)
	}

	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if status == "accepted" {
		pending, err := s.PendingSuggestions(10000)
		if err != nil {
			return err
		}
		for _, sg := range pending {
			if sg.ID != id {
				continue
			}
			a, err := s.GetNodeByTitle(sg.ConceptA)
			if err != nil {
				return err
			}
			b, err := s.GetNodeByTitle(sg.ConceptB)
			if err != nil {
				return err
			}
			if a == nil || b == nil {
				return fmt.Errorf("cannot accept: both concepts must exist as nodes")
			}
			err = s.AddEdge(store.EdgeParams{
				From: a.ID, To: b.ID,
				Type: "relates_to", Weight: 0.5,
				Provenance: "suggestion " + rawID,
			})
			if err != nil {
				return err
			}
			break
		}
	}

	if err := s.UpdateSuggestion(id, status); err != nil {
		return err
	}
	fmt.Printf("Suggestion %d %s\n", id, status)
	return nil
}

func init() {
	suggestListCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 20, "Max suggestions")
	suggestCmd.AddCommand(suggestListCmd, suggestAddCmd, suggestAcceptCmd, suggestRejectCmd)
	rootCmd.AddCommand(suggestCmd)
}
