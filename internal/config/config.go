// Package config loads layered YAML configuration: code defaults first,
// then the user-level file, then the project-local file, each overriding
// the previous like git config.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full configuration tree.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	User     string         `yaml:"user"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Decay    DecayConfig    `yaml:"decay"`
	Codebook CodebookConfig `yaml:"codebook"`
}

// DefaultsConfig tunes interactive retrieval.
type DefaultsConfig struct {
	Hops      int     `yaml:"hops"`
	MinWeight float64 `yaml:"min_weight"`
	TopK      int     `yaml:"top_k"`
}

// DecayConfig tunes periodic weight decay.
type DecayConfig struct {
	NodeHalfLifeDays int     `yaml:"node_half_life_days"`
	EdgeHalfLifeDays int     `yaml:"edge_half_life_days"`
	ReverseFactor    float64 `yaml:"reverse_factor"`
	Floor            float64 `yaml:"floor"`
}

// CodebookConfig tunes prompt-cache codebook generation.
type CodebookConfig struct {
	MinWeight     float64 `yaml:"min_weight"`
	Tier2MaxToken int     `yaml:"tier2_max_tokens"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: "~/.kin",
		Defaults: DefaultsConfig{
			Hops:      2,
			MinWeight: 0.1,
			TopK:      10,
		},
		Decay: DecayConfig{
			NodeHalfLifeDays: 90,
			EdgeHalfLifeDays: 30,
			ReverseFactor:    0.8,
			Floor:            0.01,
		},
		Codebook: CodebookConfig{
			MinWeight:     0.5,
			Tier2MaxToken: 4000,
		},
	}
}

// DataPath returns the expanded, absolute data directory.
func (c *Config) DataPath() string {
	return expandHome(c.DataDir)
}

// DBPath returns the store's database file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataPath(), "kin.db")
}

// CurrentUser resolves the user identity: config value, then git
// user.name, then the OS username.
func (c *Config) CurrentUser() string {
	if c.User != "" {
		return c.User
	}
	if out, err := exec.Command("git", "config", "--global", "user.name").Output(); err == nil {
		name := strings.TrimSpace(string(out))
		if name != "" {
			return strings.ReplaceAll(strings.ToLower(name), " ", "-")
		}
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	if u := os.Getenv("USERNAME"); u != "" {
		return u
	}
	return "unknown"
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// globalPath is the user-level config location.
func globalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kin", "kin.yaml")
}

// localPaths are project-level config locations, checked in order.
func localPaths() []string {
	return []string{
		filepath.Join(".kin", "kin.yaml"),
		"kin.yaml",
	}
}

// Load builds configuration from defaults, the global file, and the
// first local file found, in that order. An explicit path bypasses
// layering and loads only that file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeFile(cfg, expandHome(path)); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if gp := globalPath(); gp != "" {
		if err := mergeFile(cfg, gp); err != nil {
			return nil, err
		}
	}
	for _, lp := range localPaths() {
		if _, err := os.Stat(lp); err == nil {
			if err := mergeFile(cfg, lp); err != nil {
				return nil, err
			}
			break
		}
	}
	return cfg, nil
}

// mergeFile unmarshals a YAML file over cfg. Missing files are fine;
// malformed files are not.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
