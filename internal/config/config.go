package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Search holds ranking settings.
type Search struct {
	K        int  `yaml:"k"`
	Stemming bool `yaml:"stemming"`
}

// Interview holds interview settings.
type Interview struct {
	Timeout time.Duration `yaml:"timeout"`
	Task    string        `yaml:"task,omitempty"`
}

// Report holds where interview results are written. Empty paths disable a sink.
type Report struct {
	JSONLPath  string `yaml:"jsonl_path,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

// Config is the in-memory representation of ~/.scout/scout.yaml.
type Config struct {
	CatalogPath string    `yaml:"catalog_path"`
	Search      Search    `yaml:"search"`
	Interview   Interview `yaml:"interview"`
	Report      Report    `yaml:"report"`
}

// ScoutDir returns the absolute path to ~/.scout/.
func ScoutDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".scout"), nil
}

// ConfigPath returns the absolute path to ~/.scout/scout.yaml.
func ConfigPath() (string, error) {
	dir, err := ScoutDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "scout.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the default Config written on first scout init.
func DefaultConfig() (*Config, error) {
	dir, err := ScoutDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		CatalogPath: filepath.Join(dir, "agents.json"),
		Search:      Search{K: 3, Stemming: true},
		Interview: Interview{
			Timeout: 10 * time.Second,
			Task:    "Help diagnose telemetry performance bottlenecks in a cloud system.",
		},
		Report: Report{
			JSONLPath:  filepath.Join(dir, "interviews.jsonl"),
			SQLitePath: filepath.Join(dir, "interviews.db"),
		},
	}, nil
}

// Load reads and parses the config at path; an empty path means ~/.scout/scout.yaml.
// Unset fields keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	for _, p := range []*string{&cfg.CatalogPath, &cfg.Report.JSONLPath, &cfg.Report.SQLitePath} {
		if *p, err = ExpandPath(*p); err != nil {
			return nil, err
		}
	}
	if cfg.Search.K <= 0 {
		return nil, fmt.Errorf("invalid search.k in %s: %d", path, cfg.Search.K)
	}
	if cfg.Interview.Timeout <= 0 {
		return nil, fmt.Errorf("invalid interview.timeout in %s: %s", path, cfg.Interview.Timeout)
	}
	return cfg, nil
}

// Save marshals cfg and writes it to path; an empty path means ~/.scout/scout.yaml.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
