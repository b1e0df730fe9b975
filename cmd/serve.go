package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/fixture"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve-fixtures",
	Short: "Serve the built-in test agents over HTTP",
	Long: `Serve stand-in agents for local runs:

  POST /agent/telemetry   telemetry and performance specialist
  POST /agent/math        math tutor
  GET  /agents            catalog pointing at these endpoints

'scout init' writes the same catalog to ~/.scout/agents.json.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8000", "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              flagServeAddr,
		Handler:           fixture.NewRouter(logger, "http://"+flagServeAddr),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	printOK("", fmt.Sprintf("fixture agents listening on http://%s", flagServeAddr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	printInfo("", "fixture agents stopped")
	return nil
}
