// Package recommend turns a song title into an ordered list of similar
// songs. Ranking is pure and in-memory; only the artwork decoration
// step touches the network, and it can't reorder or shrink the list.
package recommend

import (
	"context"
	"fmt"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
)

// New returns a Recommender over the given store. enricher may be nil,
// in which case every recommendation carries the fallback image.
func New(store *catalog.Store, enricher *artwork.Enricher) *Recommender {
	return &Recommender{store: store, enricher: enricher}
}

type Recommender struct {
	store    *catalog.Store
	enricher *artwork.Enricher
}

// For resolves title against the catalog, ranks the similarity row, and
// returns the count most-similar songs with artwork attached. An
// unknown title returns an error wrapping catalog.ErrNotFound.
//
// Artwork lookups happen one at a time, in rank order, after ranking is
// complete; a failed lookup degrades that one item to the fallback
// image.
func (rec *Recommender) For(ctx context.Context, title string, count int) ([]data.Recommendation, error) {
	index, err := rec.store.Resolve(title)
	if err != nil {
		return nil, err
	}

	ranked, err := Rank(rec.store.Matrix(), index, count)
	if err != nil {
		return nil, fmt.Errorf("error ranking similarity row %d: %w", index, err)
	}

	recs := make([]data.Recommendation, len(ranked))
	for i, sc := range ranked {
		recs[i] = data.Recommendation{
			Song:  rec.store.Song(sc.Index),
			Score: sc.Score,
		}
	}

	for i := range recs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("canceled: %w", err)
		}
		recs[i].ImageURL = rec.enricher.ImageURL(ctx, recs[i].Song)
	}

	return recs, nil
}
