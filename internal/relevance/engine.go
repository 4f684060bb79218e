package relevance

import (
	"sort"

	"github.com/spigell/govjobs/internal/catalog"
	"github.com/spigell/govjobs/internal/query"
)

const (
	DefaultThreshold = 0.5
	// BroadThreshold is used by callers that prefer recall over precision.
	BroadThreshold = 0.15
)

// SearchResult is the ranked outcome of Search. Records and Scores are aligned
// and Count == len(Records).
type SearchResult struct {
	Records []catalog.Record
	Scores  []float64
	Count   int
	Query   query.Query
}

type candidate struct {
	index int
	score float64
}

// Search scores every record, keeps those scoring at least threshold and
// returns them best first. Equal scores keep catalog order. No capping happens
// here; trimming to a context budget is up to the caller.
func Search(records []catalog.Record, q query.Query, threshold float64) SearchResult {
	candidates := make([]candidate, 0)
	for i := range records {
		score, ok := Score(&records[i], q)
		if !ok || score < threshold {
			continue
		}
		candidates = append(candidates, candidate{index: i, score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	result := SearchResult{
		Records: make([]catalog.Record, 0, len(candidates)),
		Scores:  make([]float64, 0, len(candidates)),
		Query:   q,
	}
	for _, c := range candidates {
		result.Records = append(result.Records, records[c.index])
		result.Scores = append(result.Scores, c.score)
	}
	result.Count = len(result.Records)

	return result
}

// Top returns at most n leading records of the result. n <= 0 returns all of them.
func (r SearchResult) Top(n int) []catalog.Record {
	if n <= 0 || n >= len(r.Records) {
		return r.Records
	}
	return r.Records[:n]
}
