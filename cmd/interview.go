package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagInterviewTask     string
	flagInterviewNoReport bool
)

var interviewCmd = &cobra.Command{
	Use:   "interview <url>",
	Short: "Interview one agent endpoint about a task",
	Long: `Ask the agent at <url> one LLM-drafted question about the task and have an
LLM judge score the answer from 1 to 10. An agent that cannot be reached gets
score 0 and no judgement.`,
	Args: cobra.ExactArgs(1),
	RunE: runInterview,
}

func init() {
	interviewCmd.Flags().StringVarP(&flagInterviewTask, "task", "t", "", "Task description (default interview.task from config)")
	interviewCmd.Flags().BoolVar(&flagInterviewNoReport, "no-report", false, "Do not store the result")
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	task := flagInterviewTask
	if task == "" {
		task = cfg.Interview.Task
	}
	if task == "" {
		return fmt.Errorf("no task given: pass --task or set interview.task in scout.yaml")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	iv, err := newInterviewer(ctx, cfg)
	if err != nil {
		return err
	}
	sink, err := openSinks(cfg, flagInterviewNoReport)
	if err != nil {
		return err
	}
	defer sink.Close()

	res, err := iv.Run(ctx, args[0], task)
	if err != nil {
		return fmt.Errorf("interview %s: %w", args[0], err)
	}
	printInterview(res)
	if err := sink.Write(ctx, res); err != nil {
		printWarn("", fmt.Sprintf("result not stored: %v", err))
	}
	return nil
}
