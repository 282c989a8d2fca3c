package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kindex/kin/internal/config"
	"kindex/kin/internal/store"
)

var (
	dbPath     string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "kin",
	Short: "Personal knowledge graph with hybrid retrieval",
	Long: `Kin stores typed, weighted knowledge nodes in an embedded graph and
answers queries with hybrid full-text + graph retrieval, rendered into
token-budgeted context blocks.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to kin database file")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (bypasses layered loading)")
}

// loadConfig loads the layered configuration, honoring --config.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

// discoverDB finds the database path using priority: env > flag > config.
func discoverDB(cfg *config.Config) string {
	if envPath := os.Getenv("KIN_DB"); envPath != "" {
		return envPath
	}
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath()
}

// openStore loads config and opens the store, creating the data
// directory and schema on first use.
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	path := discoverDB(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	opts := store.Options{
		ReverseEdgeFactor: cfg.Decay.ReverseFactor,
		DecayFloor:        cfg.Decay.Floor,
	}
	s, err := store.OpenWithOptions(path, opts)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// resolveNode finds a node by exact id, exact title, or best full-text
// match, in that order.
func resolveNode(s *store.Store, reference string) (*store.Node, error) {
	node, err := s.GetNode(reference)
	if err != nil {
		return nil, err
	}
	if node != nil {
		return node, nil
	}

	node, err = s.GetNodeByTitle(reference)
	if err != nil {
		return nil, err
	}
	if node != nil {
		return node, nil
	}

	hits, err := s.FullTextSearch(reference, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) > 0 {
		return &hits[0].Node, nil
	}
	return nil, fmt.Errorf("no node found for %q", reference)
}
