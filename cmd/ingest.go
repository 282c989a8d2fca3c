package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kindex/kin/internal/adapters"
)

var (
	ingestLimit   int
	ingestSince   string
	ingestVerbose bool
	ingestOpts    []string
)

// newRegistry wires up the built-in adapters.
func newRegistry() *adapters.Registry {
	reg := adapters.NewRegistry()
	reg.Register(adapters.FilesAdapter{})
	return reg
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <adapter>",
	Short: "Run an ingestion adapter",
	Long: `Run a named adapter to import external data as graph nodes. Use
"kin ingest list" to see what is available.

  kin ingest files --opt dir=~/notes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := newRegistry()

		if args[0] == "list" {
			for _, name := range reg.Names() {
				a := reg.Get(name)
				meta := a.Meta()
				status := "available"
				if !a.IsAvailable() {
					status = "unavailable"
					if meta.AuthHint != "" {
						status += " (" + meta.AuthHint + ")"
					}
				}
				fmt.Printf("%-10s %s [%s]\n", meta.Name, meta.Description, status)
			}
			return nil
		}

		adapter := reg.Get(args[0])
		if adapter == nil {
			return fmt.Errorf("unknown adapter %q (try: kin ingest list)", args[0])
		}
		if !adapter.IsAvailable() {
			hint := adapter.Meta().AuthHint
			if hint != "" {
				return fmt.Errorf("adapter %q is not available: %s", args[0], hint)
			}
			return fmt.Errorf("adapter %q is not available", args[0])
		}

		opts := make(map[string]string)
		for _, pair := range ingestOpts {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("expected key=value for --opt, got %q", pair)
			}
			opts[key] = value
		}

		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := adapter.Ingest(s, adapters.IngestParams{
			Limit:   ingestLimit,
			Since:   ingestSince,
			Verbose: ingestVerbose,
			Options: opts,
		})
		if err != nil {
			return err
		}
		fmt.Println(result)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVarP(&ingestLimit, "limit", "n", 50, "Max items to ingest")
	ingestCmd.Flags().StringVar(&ingestSince, "since", "", "Only items after this ISO date")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print progress")
	ingestCmd.Flags().StringArrayVar(&ingestOpts, "opt", nil, "Adapter option key=value (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}
