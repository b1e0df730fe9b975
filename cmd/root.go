package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/catalog"
	"github.com/kamusis/agent-scout/internal/config"
	"github.com/kamusis/agent-scout/internal/interview"
	"github.com/kamusis/agent-scout/internal/llm"
	"github.com/kamusis/agent-scout/internal/report"
	"github.com/kamusis/agent-scout/internal/search"
	"github.com/kamusis/agent-scout/internal/selector"
	"github.com/kamusis/agent-scout/internal/transport"
)

var (
	flagConfig  string
	flagVerbose bool
	logger      = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:          "scout",
	Short:        "Find and interview agents for a task",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Scout ranks an agent catalog against a query with BM25, then interviews
the best matches: an LLM drafts a question, the agent answers over HTTP and an
LLM judge scores the answer from 1 to 10.

Configuration lives in ~/.scout/scout.yaml, LLM settings in ~/.scout/.env.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger = newLogger(flagVerbose)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.scout/scout.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug details")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger writes to stderr: readable text on a terminal, JSON otherwise.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'scout init' first.", err)
	}
	return cfg, nil
}

// loadCatalog reads the catalog, preferring an explicit path over the config.
func loadCatalog(cfg *config.Config, path string) ([]agent.Record, error) {
	if path == "" {
		path = cfg.CatalogPath
	}
	p, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	return catalog.Load(p)
}

func newSelector(cfg *config.Config, records []agent.Record) (*selector.Selector, error) {
	return selector.New(records,
		selector.WithLogger(logger),
		selector.WithIndexOptions(search.WithStemming(cfg.Search.Stemming)),
	)
}

func newInterviewer(ctx context.Context, cfg *config.Config) (*interview.Interviewer, error) {
	llmCfg, err := llm.LoadConfig()
	if err != nil {
		return nil, err
	}
	prov, err := llm.NewFromConfig(ctx, llmCfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("llm provider ready", "model", prov.ModelID())
	return interview.New(prov, transport.New(),
		interview.WithTimeout(cfg.Interview.Timeout),
		interview.WithLogger(logger),
	), nil
}

// openSinks opens every configured report sink. With noReport set, results
// are discarded.
func openSinks(cfg *config.Config, noReport bool) (report.Sink, error) {
	if noReport {
		return report.Discard{}, nil
	}
	var sinks report.Multi
	if cfg.Report.JSONLPath != "" {
		j, err := report.OpenJSONL(cfg.Report.JSONLPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, j)
	}
	if cfg.Report.SQLitePath != "" {
		db, err := report.OpenSQLite(cfg.Report.SQLitePath)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, db)
	}
	return sinks, nil
}
