// Package pipeline wires selection and interviewing into one run: rank the
// catalog, then interview each resolved candidate in rank order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamusis/agent-scout/internal/interview"
	"github.com/kamusis/agent-scout/internal/report"
	"github.com/kamusis/agent-scout/internal/selector"
)

// ErrEmptyTask is returned when Params.Task is blank.
var ErrEmptyTask = errors.New("task is required")

// Interviewer runs one interview. *interview.Interviewer satisfies it.
type Interviewer interface {
	Run(ctx context.Context, url, task string) (*interview.Result, error)
}

// Stage names where a candidate failed.
type Stage string

const (
	StageInterview Stage = "interview"
	StageReport    Stage = "report"
)

// Failure records a candidate whose interview could not be completed or
// whose result could not be stored. Processing continues after a failure.
type Failure struct {
	URL   string
	Stage Stage
	Err   error
}

// Params describes one run.
type Params struct {
	Query string
	Task  string
	K     int
}

// Report is everything a run produced. Candidates holds every ranked record,
// resolved or not; Results holds one entry per finished interview in rank
// order.
type Report struct {
	Candidates []selector.Candidate
	Results    []*interview.Result
	Failures   []Failure
}

// Pipeline runs queries against one catalog.
type Pipeline struct {
	sel      *selector.Selector
	iv       Interviewer
	sink     report.Sink
	logger   *slog.Logger
	observer func(*interview.Result)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSink stores every result in s.
func WithSink(s report.Sink) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithLogger sets the run logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver calls fn with each result as soon as it is produced.
func WithObserver(fn func(*interview.Result)) Option {
	return func(p *Pipeline) { p.observer = fn }
}

// New returns a Pipeline over sel that interviews with iv.
func New(sel *selector.Selector, iv Interviewer, opts ...Option) *Pipeline {
	p := &Pipeline{sel: sel, iv: iv, sink: report.Discard{}, logger: slog.Default()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run selects the top K candidates for Query and interviews each resolved one
// about Task, one at a time. A cancelled context stops the run between
// candidates; the partial report is returned with the context error.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Report, error) {
	if params.Task == "" {
		return nil, ErrEmptyTask
	}
	rep := &Report{Candidates: p.sel.Select(params.Query, params.K)}

	for _, c := range rep.Candidates {
		if !c.Resolved {
			p.logger.Debug("candidate has no endpoint", "id", c.ID, "name", c.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		res, err := p.iv.Run(ctx, c.URL, params.Task)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return rep, ctxErr
			}
			p.logger.Error("interview failed", "candidate", c.URL, "err", err)
			rep.Failures = append(rep.Failures, Failure{URL: c.URL, Stage: StageInterview, Err: err})
			continue
		}
		rep.Results = append(rep.Results, res)
		if p.observer != nil {
			p.observer(res)
		}
		if err := p.sink.Write(ctx, res); err != nil {
			p.logger.Warn("cannot store interview", "candidate", c.URL, "err", err)
			rep.Failures = append(rep.Failures, Failure{URL: c.URL, Stage: StageReport, Err: err})
		}
	}
	return rep, nil
}

// Best returns the highest scored result, preferring the earlier rank on
// ties. It returns nil when no result scored above zero.
func (r *Report) Best() *interview.Result {
	var best *interview.Result
	for _, res := range r.Results {
		if res.Evaluation.Score > 0 && (best == nil || res.Evaluation.Score > best.Evaluation.Score) {
			best = res
		}
	}
	return best
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.URL, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }
