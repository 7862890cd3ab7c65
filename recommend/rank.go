package recommend

import (
	"errors"
	"sort"

	"github.com/amonks/encore/similarity"
)

// DefaultCount is how many recommendations we show for a query.
const DefaultCount = 6

// ErrIndexOutOfRange is returned by Rank when the query index isn't a
// row of the matrix. Callers that resolve indices through the catalog
// store can't hit this, but the contract is defensive anyway.
var ErrIndexOutOfRange = errors.New("index out of range")

// A Scored pairs a catalog position with the similarity score it earned
// against the query.
type Scored struct {
	Index int
	Score float64
}

// Rank returns the k catalog positions most similar to the song at
// index, in descending score order. The query index itself is never
// included. Ties break by ascending position, so the ordering is fully
// deterministic: equal scores are common in coarse similarity spaces,
// and an unstable order here would make results flap between requests.
//
// The result always has exactly min(k, N-1) entries.
func Rank(m similarity.Matrix, index, k int) ([]Scored, error) {
	if index < 0 || index >= m.Dim() {
		return nil, ErrIndexOutOfRange
	}

	row := m.Row(index)
	scored := make([]Scored, 0, len(row)-1)
	for i, score := range row {
		if i == index {
			continue
		}
		scored = append(scored, Scored{Index: i, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if k < 0 {
		k = 0
	}
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}
