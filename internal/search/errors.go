package search

import "errors"

// ErrEmptyCorpus indicates an index was requested over zero documents.
var ErrEmptyCorpus = errors.New("no documents to index (empty corpus)")
