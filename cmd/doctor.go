package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/config"
	"github.com/kamusis/agent-scout/internal/llm"
)

var flagDoctorPing bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that scout's config, catalog, LLM settings and report paths are usable.
Run this command when something seems wrong, or before filing a bug report.

With --ping the LLM provider is asked for a one-word reply.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&flagDoctorPing, "ping", false, "Send a tiny request to the LLM provider")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("scout doctor")
	fmt.Println()

	// ── Check 1: scout.yaml is valid ──────────────────────────────────────────
	fmt.Println("[ scout.yaml ]")
	cfg, loadErr := config.Load(flagConfig)
	if loadErr != nil {
		failD("cannot load config: %v (run 'scout init' first)", loadErr)
	} else {
		printOK("", fmt.Sprintf("valid YAML: k=%d, stemming=%t, timeout=%s", cfg.Search.K, cfg.Search.Stemming, cfg.Interview.Timeout))
		if cfg.Interview.Task == "" {
			printWarn("", "interview.task is empty; pass --task to interview and run")
		}
	}
	fmt.Println()

	// ── Check 2: catalog loads and indexes ────────────────────────────────────
	fmt.Println("[ Catalog ]")
	if loadErr == nil {
		records, err := loadCatalog(cfg, "")
		switch {
		case err != nil:
			failD("%v", err)
		default:
			if _, err := newSelector(cfg, records); err != nil {
				failD("cannot index %s: %v", cfg.CatalogPath, err)
			} else {
				printOK("", fmt.Sprintf("%d agent(s) indexed from %s", len(records), cfg.CatalogPath))
			}
		}
	} else {
		printWarn("", "skipped (scout.yaml not loaded)")
	}
	fmt.Println()

	// ── Check 3: LLM provider ─────────────────────────────────────────────────
	fmt.Println("[ LLM provider ]")
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		failD("cannot read LLM settings: %v", err)
	} else {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		prov, err := llm.NewFromConfig(ctx, llmCfg)
		switch {
		case err != nil:
			failD("%v", err)
		case llmCfg.Model == "" && llmCfg.Provider == "openai":
			failD("SCOUT_LLM_MODEL is not set")
		case llmCfg.APIKey == "" && llmCfg.Provider == "openai":
			failD("SCOUT_LLM_API_KEY is not set")
		default:
			printOK("", fmt.Sprintf("provider ready: %s", prov.ModelID()))
			if flagDoctorPing {
				pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				out, err := prov.Generate(pingCtx, "Reply with one word.", "ping", false)
				cancel()
				if err != nil {
					failD("ping failed: %v", err)
				} else {
					printOK("", fmt.Sprintf("ping reply: %q", truncate(out, 40)))
				}
			}
		}
	}
	fmt.Println()

	// ── Check 4: report paths writable ────────────────────────────────────────
	fmt.Println("[ Reports ]")
	if loadErr == nil {
		for _, p := range []string{cfg.Report.JSONLPath, cfg.Report.SQLitePath} {
			if p == "" {
				continue
			}
			if err := checkWritableDir(filepath.Dir(p)); err != nil {
				failD("%s: %v", p, err)
			} else {
				printOK("", fmt.Sprintf("writable: %s", p))
			}
		}
		if cfg.Report.JSONLPath == "" && cfg.Report.SQLitePath == "" {
			printSkip("", "no report sink configured")
		}
	} else {
		printWarn("", "skipped (scout.yaml not loaded)")
	}
	fmt.Println()

	// ── Summary ───────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. scout is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// checkWritableDir creates dir if needed and probes it with a temp file.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".scout-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
