package catalog_test

import (
	"strings"
	"testing"

	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
	"github.com/amonks/encore/similarity"
	"github.com/stretchr/testify/assert"
)

func square(n int) similarity.Matrix {
	m := make(similarity.Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1.0
	}
	return m
}

func TestLoad(t *testing.T) {
	// column order in the artifact doesn't matter, only row order
	csv := strings.TrimSpace(`
artist,song
Artist1,Song A
Artist2,Song B
Artist1,Song C
`)
	songs, err := catalog.Load(strings.NewReader(csv))
	assert.NoError(t, err)
	assert.Equal(t, []data.Song{
		{Title: "Song A", Artist: "Artist1"},
		{Title: "Song B", Artist: "Artist2"},
		{Title: "Song C", Artist: "Artist1"},
	}, songs)
}

func TestLoadMissingColumn(t *testing.T) {
	_, err := catalog.Load(strings.NewReader("song,year\nSong A,1999\n"))
	assert.ErrorContains(t, err, "'song' and 'artist'")
}

func TestResolve(t *testing.T) {
	store, err := catalog.New([]data.Song{
		{Title: "Song A", Artist: "Artist1"},
		{Title: "Song B", Artist: "Artist2"},
		{Title: "Song A", Artist: "Artist3"},
	}, square(3))
	assert.NoError(t, err)

	// duplicates resolve to the first position
	index, err := store.Resolve("Song A")
	assert.NoError(t, err)
	assert.Equal(t, 0, index)

	index, err = store.Resolve("Song B")
	assert.NoError(t, err)
	assert.Equal(t, 1, index)
}

func TestResolveNotFound(t *testing.T) {
	store, err := catalog.New([]data.Song{
		{Title: "Song A", Artist: "Artist1"},
	}, square(1))
	assert.NoError(t, err)

	_, err = store.Resolve("Song D")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// matching is case-sensitive
	_, err = store.Resolve("song a")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestAlignment(t *testing.T) {
	songs := make([]data.Song, 100)

	_, err := catalog.New(songs, square(100))
	assert.NoError(t, err)

	_, err = catalog.New(songs, square(99))
	var alignErr *catalog.AlignmentError
	assert.ErrorAs(t, err, &alignErr)
	assert.Equal(t, 100, alignErr.Songs)
	assert.Equal(t, 99, alignErr.Dim)
}
