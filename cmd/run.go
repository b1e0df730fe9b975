package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/pipeline"
)

var (
	flagRunK        int
	flagRunTask     string
	flagRunCatalog  string
	flagRunNoReport bool
)

var runCmd = &cobra.Command{
	Use:   "run <query>",
	Short: "Search the catalog and interview the top matches",
	Long: `Rank the catalog against <query>, then interview every top-k agent that has
an http endpoint, one at a time in rank order. Unreachable agents score 0; a
judge reply that cannot be parsed is reported as a failure and the run goes on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&flagRunK, "k", "k", 0, "Number of candidates (default search.k from config)")
	runCmd.Flags().StringVarP(&flagRunTask, "task", "t", "", "Task description (default interview.task from config)")
	runCmd.Flags().StringVar(&flagRunCatalog, "catalog", "", "Catalog file (default catalog_path from config)")
	runCmd.Flags().BoolVar(&flagRunNoReport, "no-report", false, "Do not store results")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadCatalog(cfg, flagRunCatalog)
	if err != nil {
		return err
	}
	sel, err := newSelector(cfg, records)
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	iv, err := newInterviewer(ctx, cfg)
	if err != nil {
		return err
	}
	sink, err := openSinks(cfg, flagRunNoReport)
	if err != nil {
		return err
	}
	defer sink.Close()

	params := pipeline.Params{
		Query: strings.Join(args, " "),
		Task:  flagRunTask,
		K:     flagRunK,
	}
	if params.Task == "" {
		params.Task = cfg.Interview.Task
	}
	if params.K <= 0 {
		params.K = cfg.Search.K
	}

	p := pipeline.New(sel, iv,
		pipeline.WithSink(sink),
		pipeline.WithLogger(logger),
		pipeline.WithObserver(printInterview),
	)
	rep, runErr := p.Run(ctx, params)
	if rep == nil {
		return runErr
	}

	printSection("Summary")
	var resolved int
	for _, c := range rep.Candidates {
		if c.Resolved {
			resolved++
		} else {
			printSkip(c.Name, "no http endpoint")
		}
	}
	printInfo("", fmt.Sprintf("%d candidate(s) ranked, %d with an endpoint, %d interviewed", len(rep.Candidates), resolved, len(rep.Results)))
	for _, f := range rep.Failures {
		printErr(string(f.Stage), fmt.Sprintf("%s: %v", f.URL, f.Err))
	}
	if best := rep.Best(); best != nil {
		printOK("", fmt.Sprintf("best match: %s (score %d): %s", best.Candidate, best.Evaluation.Score, best.Evaluation.Justification))
	} else {
		printWarn("", "no candidate scored above 0")
	}
	return runErr
}
