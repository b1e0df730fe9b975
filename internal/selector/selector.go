// Package selector turns a catalog and a query into an ordered list of
// candidate endpoints: canonicalize every record, rank with BM25, resolve
// each hit to a URL.
package selector

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/search"
)

// ErrEmptyCatalog indicates selection was attempted over zero records.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Candidate is one ranked record. Position is the record's index in the
// catalog slice given to New. URL is empty and Resolved false when the
// record has no usable http(s) endpoint.
type Candidate struct {
	Rank     int
	Position int
	Score    float64
	ID       string
	Name     string
	URL      string
	Resolved bool
}

// entry ties a record to its document so ranking results can never be
// attributed to the wrong agent.
type entry struct {
	pos      int
	record   agent.Record
	document string
}

// Selector is built once per catalog and answers any number of queries.
type Selector struct {
	entries []entry
	index   *search.Index
	logger  *slog.Logger
}

// Option configures a Selector.
type Option func(*settings)

type settings struct {
	logger   *slog.Logger
	indexOpt []search.Option
}

// WithLogger sets the logger used for per-hit diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithIndexOptions forwards options to the BM25 index.
func WithIndexOptions(opts ...search.Option) Option {
	return func(s *settings) { s.indexOpt = append(s.indexOpt, opts...) }
}

// New canonicalizes records and builds the ranking index. The returned error
// matches both ErrEmptyCatalog and search.ErrEmptyCorpus when records is empty.
func New(records []agent.Record, opts ...Option) (*Selector, error) {
	var st settings
	for _, o := range opts {
		o(&st)
	}
	if st.logger == nil {
		st.logger = slog.Default()
	}

	entries := make([]entry, len(records))
	docs := make([]string, len(records))
	for i, r := range records {
		entries[i] = entry{pos: i, record: r, document: agent.Canonicalize(r)}
		docs[i] = entries[i].document
	}

	ix, err := search.New(docs, st.indexOpt...)
	if err != nil {
		if errors.Is(err, search.ErrEmptyCorpus) {
			return nil, fmt.Errorf("%w: %w", ErrEmptyCatalog, err)
		}
		return nil, err
	}
	return &Selector{entries: entries, index: ix, logger: st.logger}, nil
}

// Len returns the number of catalog records.
func (s *Selector) Len() int {
	return len(s.entries)
}

// Document returns the canonical text of the record at pos.
func (s *Selector) Document(pos int) string {
	return s.entries[pos].document
}

// Select ranks the catalog against query and returns the top k records,
// resolved or not. k is clamped to [1, Len()].
func (s *Selector) Select(query string, k int) []Candidate {
	hits := s.index.Query(query, k)
	out := make([]Candidate, 0, len(hits))
	for i, hit := range hits {
		e := s.entries[hit.Doc]
		url, ok := agent.ResolveURL(e.record)
		c := Candidate{
			Rank:     i + 1,
			Position: e.pos,
			Score:    hit.Score,
			ID:       e.record.ID(),
			Name:     e.record.DisplayName(),
			URL:      url,
			Resolved: ok,
		}
		s.logger.Info("candidate ranked",
			"rank", c.Rank,
			"score", fmt.Sprintf("%.3f", c.Score),
			"id", c.ID,
			"name", c.Name,
			"resolved", c.Resolved,
		)
		out = append(out, c)
	}
	return out
}

// URLs returns the resolved endpoints of the top k records in rank order.
// Records without a usable endpoint are dropped, so fewer than k URLs may
// come back.
func (s *Selector) URLs(query string, k int) []string {
	var urls []string
	for _, c := range s.Select(query, k) {
		if c.Resolved {
			urls = append(urls, c.URL)
		}
	}
	return urls
}

// Select is the one-shot form: build a selector over records and return the
// resolved URLs of the top k matches for query.
func Select(records []agent.Record, query string, k int, opts ...Option) ([]string, error) {
	s, err := New(records, opts...)
	if err != nil {
		return nil, err
	}
	return s.URLs(query, k), nil
}
