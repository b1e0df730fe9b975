package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/config"
	"github.com/kamusis/agent-scout/internal/fixture"
)

var (
	flagInitFixtureURL string
	flagInitForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.scout with a config, a dotenv template and a sample catalog",
	Long: `Initialize scout's home directory at ~/.scout/:

  scout.yaml   search, interview and report settings
  .env         LLM provider settings (SCOUT_LLM_*), never overwritten
  agents.json  sample catalog pointing at 'scout serve-fixtures'

Existing files are left alone unless --force is given (.env is always kept).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&flagInitFixtureURL, "fixture-url", "http://127.0.0.1:8000", "Base URL written into the sample catalog")
	initCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite scout.yaml and the sample catalog")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.scout directory ─────────────────────────────────────────
	scoutDir, err := config.ScoutDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(scoutDir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", scoutDir, err)
	}
	printOK("", fmt.Sprintf("scout directory ready: %s", scoutDir))

	// ── 2. Write scout.yaml if missing ────────────────────────────────────────
	cfgPath := flagConfig
	if cfgPath == "" {
		if cfgPath, err = config.ConfigPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) || flagInitForce {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg, cfgPath); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("config already exists: %s", cfgPath))
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// ── 3. Dotenv template ────────────────────────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(envPath)
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	if os.IsNotExist(statErr) {
		printOK("", fmt.Sprintf("dotenv template written: %s", envPath))
	} else {
		printSkip("", fmt.Sprintf("dotenv already exists: %s", envPath))
	}

	// ── 4. Sample catalog ─────────────────────────────────────────────────────
	if _, err := os.Stat(cfg.CatalogPath); os.IsNotExist(err) || flagInitForce {
		if err := writeSampleCatalog(cfg.CatalogPath, flagInitFixtureURL); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("sample catalog written: %s", cfg.CatalogPath))
	} else {
		printSkip("", fmt.Sprintf("catalog already exists: %s", cfg.CatalogPath))
	}

	fmt.Println("\n✓  scout init complete. Fill in ~/.scout/.env, then run 'scout doctor'.")
	return nil
}

func writeSampleCatalog(path, baseURL string) error {
	data, err := json.MarshalIndent(fixture.SampleCatalog(baseURL), "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode sample catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create catalog dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("cannot write catalog %s: %w", path, err)
	}
	return nil
}
