package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	skillEvidence string
	skillSource   string
)

var skillCmd = &cobra.Command{
	Use:   "skill <person> <skill>",
	Short: "Record a person demonstrating a skill",
	Long: `Record skill evidence. Missing person or skill nodes are created, a
demonstrates edge accumulates the evidence trail, and the skill's
weight gets a small boost per sighting.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.RecordSkillEvidence(args[0], args[1], skillEvidence, skillSource); err != nil {
			return err
		}
		fmt.Printf("Recorded: %s demonstrates %s\n", args[0], args[1])
		return nil
	},
}

var directiveCmd = &cobra.Command{
	Use:   "directive <node> <state-json>",
	Short: "Update a directive's mutable state",
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

		var state map[string]any
		if err := json.Unmarshal([]byte(args[1]), &state); err != nil {
			return fmt.Errorf("state must be a JSON object: %w", err)
		}
		if err := s.UpdateDirectiveState(node.ID, state); err != nil {
			return err
		}
		fmt.Printf("Updated state of %s\n", node.Title)
		return nil
	},
}

func init() {
	skillCmd.Flags().StringVarP(&skillEvidence, "evidence", "e", "", "What was observed")
	skillCmd.Flags().StringVar(&skillSource, "source", "", "Where it was observed")
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(directiveCmd)
}
