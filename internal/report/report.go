// Package report persists interview results. Sinks are append-only; nothing
// in the interview path reads them back.
package report

import (
	"context"
	"errors"

	"github.com/kamusis/agent-scout/internal/interview"
)

// Sink receives every interview result produced during a run.
type Sink interface {
	Write(ctx context.Context, res *interview.Result) error
	Close() error
}

// Multi fans out to several sinks. Every sink sees every result even when an
// earlier one fails; the errors are joined.
type Multi []Sink

func (m Multi) Write(ctx context.Context, res *interview.Result) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every result.
type Discard struct{}

func (Discard) Write(context.Context, *interview.Result) error { return nil }
func (Discard) Close() error                                  { return nil }
