package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <node> <field=value>...",
	Short: "Update whitelisted node fields",
	Long: `Update node fields in place. Fields: title, content, intent, weight,
status, audience, aka, domains. List fields take comma-separated values.

  kin update stigmergy weight=0.9 status=active
  kin update stigmergy domains=systems,biology`,
	Args: cobra.MinimumNArgs(2),
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

		fields := make(map[string]any)
		for _, pair := range args[1:] {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("expected field=value, got %q", pair)
			}
			switch key {
			case "weight":
				w, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return fmt.Errorf("invalid weight %q: %w", value, err)
				}
				fields[key] = w
			case "aka", "domains":
				var list []string
				for _, v := range strings.Split(value, ",") {
					if v = strings.TrimSpace(v); v != "" {
						list = append(list, v)
					}
				}
				fields[key] = list
			default:
				fields[key] = value
			}
		}

		if err := s.UpdateNode(node.ID, fields); err != nil {
			return err
		}
		fmt.Printf("Updated %s (%d fields)\n", node.Title, len(fields))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <node>",
	Short: "Delete a node and all its edges",
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
		if err := s.DeleteNode(node.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", node.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(rmCmd)
}
