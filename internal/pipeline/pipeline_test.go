package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/fixture"
	"github.com/kamusis/agent-scout/internal/interview"
	"github.com/kamusis/agent-scout/internal/report"
	"github.com/kamusis/agent-scout/internal/selector"
	"github.com/kamusis/agent-scout/internal/transport"
)

// scriptedLLM asks a fixed question and judges by answer content: answers
// from the math agent get malformed output.
type scriptedLLM struct {
	mu     sync.Mutex
	judged int
}

func (s *scriptedLLM) Generate(_ context.Context, _, user string, jsonMode bool) (string, error) {
	if !jsonMode {
		return "How do you find a latency regression?", nil
	}
	s.mu.Lock()
	s.judged++
	s.mu.Unlock()
	if strings.Contains(user, "[MathAgent]") {
		return "not json", nil
	}
	return `{"score": 8, "justification": "relevant specialist"}`, nil
}

func fixtureServer(t *testing.T) string {
	t.Helper()
	var h http.Handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { h.ServeHTTP(w, r) }))
	h = fixture.NewRouter(nil, srv.URL)
	t.Cleanup(srv.Close)
	return srv.URL
}

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u + "/agent/telemetry"
}

func catalog(t *testing.T) []agent.Record {
	recs := fixture.SampleCatalog(fixtureServer(t))
	recs = append(recs,
		agent.Record{
			"id":          "offline-telemetry",
			"name":        "Offline Telemetry",
			"description": "telemetry performance bottlenecks in cloud systems",
			"endpoints":   map[string]any{"static": []any{deadURL(t)}},
		},
		agent.Record{
			"id":          "ws-only",
			"name":        "Streaming Telemetry",
			"description": "telemetry performance",
			"endpoints":   map[string]any{"static": []any{"wss://example.invalid/stream"}},
		},
	)
	return recs
}

func TestRun_InterviewsResolvedCandidatesInOrder(t *testing.T) {
	sel, err := selector.New(catalog(t))
	require.NoError(t, err)

	llm := &scriptedLLM{}
	sink, err := report.OpenJSONL(filepath.Join(t.TempDir(), "interviews.jsonl"))
	require.NoError(t, err)
	var seen []string
	p := New(sel, interview.New(llm, transport.New()),
		WithSink(sink),
		WithObserver(func(r *interview.Result) { seen = append(seen, r.Candidate) }))

	rep, err := p.Run(context.Background(), Params{
		Query: "telemetry performance bottlenecks",
		Task:  "Help diagnose telemetry performance bottlenecks in a cloud system.",
		K:     10,
	})
	require.NoError(t, err)

	assert.Len(t, rep.Candidates, 4)
	var resolved int
	for _, c := range rep.Candidates {
		if c.Resolved {
			resolved++
		}
	}
	assert.Equal(t, 3, resolved)

	// math answers draw malformed judge output and become failures.
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, StageInterview, rep.Failures[0].Stage)
	assert.True(t, strings.HasSuffix(rep.Failures[0].URL, "/agent/math"))
	var jpe *interview.JudgeParseError
	assert.ErrorAs(t, rep.Failures[0], &jpe)

	require.Len(t, rep.Results, 2)
	var skipped int
	for _, r := range rep.Results {
		if r.Answer == nil {
			skipped++
			assert.Equal(t, interview.StateSkipped, r.State)
			assert.Equal(t, interview.Evaluation{Score: 0, Justification: "Candidate unreachable"}, r.Evaluation)
		}
	}
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 2, llm.judged)

	best := rep.Best()
	require.NotNil(t, best)
	assert.Equal(t, 8, best.Evaluation.Score)
	require.NotNil(t, best.Answer)
	assert.Contains(t, *best.Answer, "[TelemetryAgent]")

	stored, err := report.ReadJSONL(sink.Path(), 0)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Len(t, seen, 2)
	assert.Equal(t, rep.Results[0].Candidate, seen[0])
}

type stubInterviewer struct {
	calls []string
	err   error
}

func (s *stubInterviewer) Run(_ context.Context, url, task string) (*interview.Result, error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return nil, s.err
	}
	return &interview.Result{Candidate: url, Task: task, State: interview.StateEvaluated,
		Evaluation: interview.Evaluation{Score: 5, Justification: "ok"}}, nil
}

type brokenSink struct{}

func (brokenSink) Write(context.Context, *interview.Result) error { return errors.New("read-only") }
func (brokenSink) Close() error                                   { return nil }

func TestRun_SinkFailureIsRecorded(t *testing.T) {
	sel, err := selector.New(fixture.SampleCatalog("http://127.0.0.1:1"))
	require.NoError(t, err)
	iv := &stubInterviewer{}

	rep, err := New(sel, iv, WithSink(brokenSink{})).Run(context.Background(), Params{Query: "math", Task: "t", K: 2})
	require.NoError(t, err)
	assert.Len(t, rep.Results, 2)
	require.Len(t, rep.Failures, 2)
	assert.Equal(t, StageReport, rep.Failures[0].Stage)
}

func TestRun_CancelledContextStops(t *testing.T) {
	sel, err := selector.New(fixture.SampleCatalog("http://127.0.0.1:1"))
	require.NoError(t, err)
	iv := &stubInterviewer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := New(sel, iv).Run(ctx, Params{Query: "math", Task: "t", K: 2})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, iv.calls)
	assert.Len(t, rep.Candidates, 2)
}

type cancellingInvoker struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingInvoker) Invoke(ctx context.Context, url, _ string) (*transport.Reply, error) {
	c.calls++
	c.cancel()
	return nil, &transport.Error{URL: url, Reason: "sending request", Err: ctx.Err()}
}

type countingSink struct{ writes int }

func (c *countingSink) Write(context.Context, *interview.Result) error { c.writes++; return nil }
func (c *countingSink) Close() error                                   { return nil }

func TestRun_CancelDuringInvokeRecordsNothing(t *testing.T) {
	sel, err := selector.New(fixture.SampleCatalog("http://127.0.0.1:1"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	inv := &cancellingInvoker{cancel: cancel}
	sink := &countingSink{}
	var observed int
	p := New(sel, interview.New(&scriptedLLM{}, inv),
		WithSink(sink),
		WithObserver(func(*interview.Result) { observed++ }))

	rep, err := p.Run(ctx, Params{Query: "telemetry", Task: "t", K: 2})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.Equal(t, 1, inv.calls)
	assert.Empty(t, rep.Results)
	assert.Empty(t, rep.Failures)
	assert.Zero(t, sink.writes)
	assert.Zero(t, observed)
}

func TestRun_RequiresTask(t *testing.T) {
	sel, err := selector.New(fixture.SampleCatalog("http://127.0.0.1:1"))
	require.NoError(t, err)
	_, err = New(sel, &stubInterviewer{}).Run(context.Background(), Params{Query: "math", K: 1})
	assert.ErrorIs(t, err, ErrEmptyTask)
}

func TestReportBest_NoScores(t *testing.T) {
	rep := &Report{Results: []*interview.Result{{Evaluation: interview.Evaluation{Score: 0}}}}
	assert.Nil(t, rep.Best())
}
