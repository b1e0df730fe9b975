package cmd

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/catalog"
	"github.com/kamusis/agent-scout/internal/config"
	"github.com/kamusis/agent-scout/internal/interview"
	"github.com/kamusis/agent-scout/internal/report"
)

func TestWriteSampleCatalog_LoadsBack(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sub", "agents.json")
	if err := writeSampleCatalog(p, "http://127.0.0.1:9000"); err != nil {
		t.Fatalf("writeSampleCatalog: %v", err)
	}
	recs, err := catalog.Load(p)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("empty sample catalog")
	}
	for _, r := range recs {
		u, ok := agent.ResolveURL(r)
		if !ok || !strings.HasPrefix(u, "http://127.0.0.1:9000/agent/") {
			t.Fatalf("record %s resolves to %q", r.ID(), u)
		}
	}
}

func TestOpenSinksAndRecentResults(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Report: config.Report{
		JSONLPath:  filepath.Join(dir, "interviews.jsonl"),
		SQLitePath: filepath.Join(dir, "interviews.db"),
	}}

	sink, err := openSinks(cfg, false)
	if err != nil {
		t.Fatalf("openSinks: %v", err)
	}
	now := time.Now()
	res := &interview.Result{Candidate: "http://a", Task: "t", State: interview.StateSkipped,
		Evaluation: interview.Evaluation{Justification: "Candidate unreachable"}, StartedAt: now, FinishedAt: now}
	if err := sink.Write(context.Background(), res); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, source, err := recentResults(context.Background(), cfg, 5)
	if err != nil {
		t.Fatalf("recentResults: %v", err)
	}
	if source != cfg.Report.SQLitePath || len(got) != 1 || got[0].Candidate != "http://a" {
		t.Fatalf("got %v from %s", got, source)
	}

	cfg.Report.SQLitePath = ""
	got, source, err = recentResults(context.Background(), cfg, 5)
	if err != nil || source != cfg.Report.JSONLPath || len(got) != 1 {
		t.Fatalf("jsonl fallback: %v %s %v", got, source, err)
	}
}

func TestOpenSinks_NoReport(t *testing.T) {
	sink, err := openSinks(&config.Config{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sink.(report.Discard); !ok {
		t.Fatalf("sink = %T, want report.Discard", sink)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  short\ttask ", 10); got != "short task" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("got %q", got)
	}
}
