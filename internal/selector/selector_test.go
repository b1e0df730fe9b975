package selector

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/search"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func catalog() []agent.Record {
	return []agent.Record{
		{
			"id":          "telemetry",
			"name":        "Telemetry Agent",
			"description": "Diagnoses telemetry performance bottlenecks in cloud systems",
			"endpoints": map[string]any{
				"static": []any{"wss://telemetry.example/ws", "http://127.0.0.1:8000/agent/telemetry"},
			},
		},
		{
			"id":          "math",
			"name":        "Math Tutor",
			"description": "Algebra and calculus tutoring",
			"endpoints": map[string]any{
				"adaptive_resolver": map[string]any{"url": "http://127.0.0.1:8000/agent/math"},
			},
		},
		{
			"id":          "telemetry-ws",
			"name":        "Telemetry Streamer",
			"description": "Streams telemetry performance metrics",
			"endpoints":   map[string]any{"static": []any{"wss://only.example"}},
		},
		{
			"id":          "travel",
			"name":        "Travel Planner",
			"description": "Books flights",
		},
	}
}

func TestNew_EmptyCatalog(t *testing.T) {
	_, err := New(nil, quiet())
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("err = %v, want ErrEmptyCatalog", err)
	}
	if !errors.Is(err, search.ErrEmptyCorpus) {
		t.Fatalf("err = %v, want to wrap search.ErrEmptyCorpus", err)
	}
	if _, err := Select(nil, "anything", 3, quiet()); !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("Select err = %v, want ErrEmptyCatalog", err)
	}
}

func TestSelect_RanksAndResolves(t *testing.T) {
	s, err := New(catalog(), quiet())
	if err != nil {
		t.Fatal(err)
	}
	got := s.Select("telemetry performance", 2)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", got)
	}
	ids := map[string]bool{got[0].ID: true, got[1].ID: true}
	if !ids["telemetry"] || !ids["telemetry-ws"] {
		t.Fatalf("expected both telemetry agents, got %+v", got)
	}
	for _, c := range got {
		if c.ID == "telemetry-ws" && c.Resolved {
			t.Errorf("websocket-only agent resolved to %q", c.URL)
		}
		if c.ID == "telemetry" && c.URL != "http://127.0.0.1:8000/agent/telemetry" {
			t.Errorf("telemetry URL = %q", c.URL)
		}
		if catalog()[c.Position]["id"] != c.ID {
			t.Errorf("position %d does not point at %s", c.Position, c.ID)
		}
	}
}

func TestURLs_FiltersUnresolved(t *testing.T) {
	urls, err := Select(catalog(), "telemetry performance", 2, quiet())
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != "http://127.0.0.1:8000/agent/telemetry" {
		t.Fatalf("urls = %v", urls)
	}
}

func TestURLs_LengthAndSchemeBounds(t *testing.T) {
	recs := catalog()
	s, err := New(recs, quiet())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []int{-1, 0, 1, 2, 3, 4, 10} {
		urls := s.URLs("agent", k)
		limit := max(1, min(k, len(recs)))
		if len(urls) > limit {
			t.Errorf("k=%d: %d urls exceeds %d", k, len(urls), limit)
		}
		for _, u := range urls {
			if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
				t.Errorf("k=%d: non-http url %q", k, u)
			}
		}
	}
}

func TestSelect_DiagnosticsLogged(t *testing.T) {
	var buf strings.Builder
	s, err := New(catalog(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	if err != nil {
		t.Fatal(err)
	}
	s.Select("calculus", 1)
	out := buf.String()
	for _, want := range []string{"rank=1", "id=math", `name="Math Tutor"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestDocument_AlignedWithRecords(t *testing.T) {
	recs := catalog()
	s, err := New(recs, quiet(), WithIndexOptions(search.WithStemming(false)))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != len(recs) {
		t.Fatalf("Len = %d", s.Len())
	}
	for i, r := range recs {
		if s.Document(i) != agent.Canonicalize(r) {
			t.Errorf("document %d misaligned", i)
		}
	}
}
