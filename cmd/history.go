package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/config"
	"github.com/kamusis/agent-scout/internal/interview"
	"github.com/kamusis/agent-scout/internal/report"
)

var flagHistoryN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent interview results",
	Long: `Show the most recent stored interviews, newest first. Results are read from
the SQLite report when configured, otherwise from the JSONL report.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryN, "n", "n", 10, "Number of interviews to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, source, err := recentResults(ctx, cfg, flagHistoryN)
	if err != nil {
		return err
	}
	if source == "" {
		printSkip("", "no report sink configured (report.jsonl_path / report.sqlite_path)")
		return nil
	}

	fmt.Printf("\nscout history (%s)\n\n", source)
	if len(results) == 0 {
		printInfo("", "no interviews recorded yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  FINISHED\tSCORE\tSTATE\tCANDIDATE\tTASK")
	for _, r := range results {
		fmt.Fprintf(w, "  %s\t%d\t%s\t%s\t%s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			r.Evaluation.Score, r.State, r.Candidate, truncate(r.Task, 48))
	}
	return w.Flush()
}

func recentResults(ctx context.Context, cfg *config.Config, n int) ([]interview.Result, string, error) {
	if cfg.Report.SQLitePath != "" {
		if _, err := os.Stat(cfg.Report.SQLitePath); err == nil {
			db, err := report.OpenSQLite(cfg.Report.SQLitePath)
			if err != nil {
				return nil, "", err
			}
			defer db.Close()
			res, err := db.Recent(ctx, n)
			return res, cfg.Report.SQLitePath, err
		}
	}
	if cfg.Report.JSONLPath != "" {
		res, err := report.ReadJSONL(cfg.Report.JSONLPath, n)
		return res, cfg.Report.JSONLPath, err
	}
	if cfg.Report.SQLitePath != "" {
		return nil, cfg.Report.SQLitePath, nil
	}
	return nil, "", nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
