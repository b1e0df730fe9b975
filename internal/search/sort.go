package search

import "sort"

// SortResults sorts results by score (descending), then by document position (ascending).
func SortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Doc < results[j].Doc
		}
		return results[i].Score > results[j].Score
	})
}
