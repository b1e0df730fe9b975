package search

// Result is one ranked hit. Doc is the position of the document in the slice
// passed to New. Scores are comparable only within a single query.
type Result struct {
	Doc   int
	Score float64
}
