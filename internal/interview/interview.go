// Package interview runs the question, answer, judge sequence against one
// candidate agent and produces a scored Result.
//
// An unreachable candidate is not an error: Run returns a skipped Result with
// a zero score and the judge is never consulted. A judge reply that cannot be
// parsed is an error (*JudgeParseError) because it says nothing about the
// candidate.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kamusis/agent-scout/internal/transport"
)

// DefaultTimeout bounds the call to the candidate.
const DefaultTimeout = 10 * time.Second

// Generator drafts text with a language model. llm.Provider satisfies it.
type Generator interface {
	Generate(ctx context.Context, system, user string, jsonMode bool) (string, error)
}

// Invoker sends one message to a candidate. *transport.Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, url, message string) (*transport.Reply, error)
}

// Result is the outcome of one interview. Answer is nil when the candidate
// could not be reached.
type Result struct {
	ID         uuid.UUID  `json:"id"`
	Candidate  string     `json:"candidate"`
	Task       string     `json:"task"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer"`
	Evaluation Evaluation `json:"evaluation"`
	State      State      `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Interviewer holds the capabilities an interview needs. It keeps no state
// between runs.
type Interviewer struct {
	gen     Generator
	inv     Invoker
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures an Interviewer.
type Option func(*Interviewer)

// WithTimeout bounds the candidate call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(iv *Interviewer) {
		if d > 0 {
			iv.timeout = d
		}
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(iv *Interviewer) {
		if l != nil {
			iv.logger = l
		}
	}
}

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(iv *Interviewer) {
		if now != nil {
			iv.now = now
		}
	}
}

// New returns an Interviewer that drafts and judges with gen and reaches
// candidates through inv.
func New(gen Generator, inv Invoker, opts ...Option) *Interviewer {
	iv := &Interviewer{
		gen:     gen,
		inv:     inv,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(iv)
	}
	return iv
}

// Run interviews the candidate at url for task. It returns an error when the
// language model fails, the judge output is malformed or ctx is done.
func (iv *Interviewer) Run(ctx context.Context, url, task string) (*Result, error) {
	res := &Result{
		ID:        uuid.New(),
		Candidate: url,
		Task:      task,
		State:     StateStart,
		StartedAt: iv.now(),
	}
	log := iv.logger.With("candidate", url, "interview", res.ID.String())

	question, err := iv.gen.Generate(ctx, interviewerPersona, questionPrompt(task), false)
	if err != nil {
		return nil, fmt.Errorf("%w: drafting question: %w", ErrGenerate, err)
	}
	res.Question = strings.TrimSpace(question)
	iv.transition(log, res, StateQuestioned)

	answer, err := iv.ask(ctx, url, res.Question)
	if err != nil {
		// A cancelled caller says nothing about the candidate.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("candidate unreachable", "err", err)
		iv.transition(log, res, StateUnreachable)
		res.Evaluation = Evaluation{Score: 0, Justification: unreachableJustification}
		iv.transition(log, res, StateSkipped)
		res.FinishedAt = iv.now()
		return res, nil
	}
	res.Answer = &answer
	iv.transition(log, res, StateAnswered)

	verdict, err := iv.gen.Generate(ctx, judgePersona, judgePrompt(task, res.Question, answer), true)
	if err != nil {
		return nil, fmt.Errorf("%w: judging answer: %w", ErrGenerate, err)
	}
	eval, err := ParseEvaluation(verdict)
	if err != nil {
		return nil, err
	}
	res.Evaluation = eval
	iv.transition(log, res, StateEvaluated)
	res.FinishedAt = iv.now()
	return res, nil
}

func (iv *Interviewer) ask(ctx context.Context, url, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, iv.timeout)
	defer cancel()

	reply, err := iv.inv.Invoke(ctx, url, question)
	if err != nil {
		return "", err
	}
	return extractAnswer(reply), nil
}

func (iv *Interviewer) transition(log *slog.Logger, res *Result, to State) {
	log.Debug("interview state", "from", res.State.String(), "to", to.String())
	res.State = to
}

// extractAnswer prefers "content", then "output", then the whole object
// re-encoded, then the raw body.
func extractAnswer(reply *transport.Reply) string {
	if reply == nil {
		return ""
	}
	if reply.Fields == nil {
		return strings.TrimSpace(string(reply.Body))
	}
	for _, key := range []string{"content", "output"} {
		if s := answerText(reply.Fields[key]); s != "" {
			return s
		}
	}
	b, err := json.Marshal(reply.Fields)
	if err != nil {
		return strings.TrimSpace(string(reply.Body))
	}
	return string(b)
}

func answerText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
		return t.String()
	case []any:
		if len(t) == 0 {
			return ""
		}
	case map[string]any:
		if len(t) == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
