package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Read and write store metadata",
}

var metaGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a meta value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		value, ok, err := s.GetMeta(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no meta key %q", args[0])
		}
		fmt.Println(value)
		return nil
	},
}

var metaSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a meta value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SetMeta(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	metaCmd.AddCommand(metaGetCmd, metaSetCmd)
	rootCmd.AddCommand(metaCmd)
}
