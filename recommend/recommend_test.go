package recommend_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
	"github.com/amonks/encore/recommend"
	"github.com/amonks/encore/similarity"
	"github.com/stretchr/testify/assert"
)

// failingSearcher fails lookups for one title and serves a predictable
// url for every other.
type failingSearcher struct {
	failTitle string
}

func (s *failingSearcher) SearchTrackImage(ctx context.Context, title, artist string) (string, error) {
	if title == s.failTitle {
		return "", artwork.ErrNoMatch
	}
	return "https://img.example/" + title, nil
}

func sevenSongStore(t *testing.T) *catalog.Store {
	songs := make([]data.Song, 7)
	for i := range songs {
		songs[i] = data.Song{
			Title:  fmt.Sprintf("Song %d", i),
			Artist: fmt.Sprintf("Artist %d", i),
		}
	}

	// row 0 ranks the other six songs in descending index order:
	// song 1 scores 0.9, song 2 scores 0.8, and so on
	m := make(similarity.Matrix, 7)
	for i := range m {
		m[i] = make([]float64, 7)
		m[i][i] = 1.0
	}
	for j := 1; j < 7; j++ {
		m[0][j] = 1.0 - float64(j)/10
		m[j][0] = m[0][j]
	}

	store, err := catalog.New(songs, m)
	assert.NoError(t, err)
	return store
}

func TestForReturnsRankedSongs(t *testing.T) {
	store := sevenSongStore(t)
	rec := recommend.New(store, nil)

	recs, err := rec.For(context.Background(), "Song 0", 6)
	assert.NoError(t, err)
	assert.Len(t, recs, 6)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("Song %d", i+1), r.Title)
		assert.Equal(t, fmt.Sprintf("Artist %d", i+1), r.Artist)
		assert.Equal(t, artwork.FallbackImageURL, r.ImageURL)
	}
}

func TestForNotFound(t *testing.T) {
	store := sevenSongStore(t)
	rec := recommend.New(store, nil)

	_, err := rec.For(context.Background(), "Song 99", 6)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

// A failed artwork lookup for one item degrades only that item to the
// fallback image; the batch keeps its size and order.
func TestForEnrichmentIsolation(t *testing.T) {
	store := sevenSongStore(t)
	enricher := artwork.New(&failingSearcher{failTitle: "Song 3"}, nil)
	rec := recommend.New(store, enricher)

	recs, err := rec.For(context.Background(), "Song 0", 6)
	assert.NoError(t, err)
	assert.Len(t, recs, 6)
	for i, r := range recs {
		assert.Equal(t, fmt.Sprintf("Song %d", i+1), r.Title)
		if r.Title == "Song 3" {
			assert.Equal(t, artwork.FallbackImageURL, r.ImageURL)
		} else {
			assert.Equal(t, "https://img.example/"+r.Title, r.ImageURL)
		}
	}
}
