package cmd

import (
	"github.com/spf13/cobra"

	"kindex/kin/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph over MCP on stdio",
	Long: `Run the Model Context Protocol server so LLM tools can search the
graph, add nodes, and build context blocks. Uses stdio transport;
diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		return mcpserver.ServeStdio(mcpserver.New(s))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
