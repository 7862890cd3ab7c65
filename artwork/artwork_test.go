package artwork_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/data"
	"github.com/stretchr/testify/assert"
)

var song = data.Song{Title: "Song A", Artist: "Artist1"}

type stubSearcher struct {
	url   string
	err   error
	calls int
}

func (s *stubSearcher) SearchTrackImage(ctx context.Context, title, artist string) (string, error) {
	s.calls++
	return s.url, s.err
}

type mapCache map[string]string

func (c mapCache) GetArtwork(title, artist string) (string, bool, error) {
	url, ok := c[title+"\x00"+artist]
	return url, ok, nil
}

func (c mapCache) PutArtwork(title, artist, imageURL string) error {
	c[title+"\x00"+artist] = imageURL
	return nil
}

func TestNilEnricher(t *testing.T) {
	var e *artwork.Enricher
	assert.Equal(t, artwork.FallbackImageURL, e.ImageURL(context.Background(), song))
}

func TestNoSearcher(t *testing.T) {
	e := artwork.New(nil, nil)
	assert.Equal(t, artwork.FallbackImageURL, e.ImageURL(context.Background(), song))
}

// Every failure mode maps to the same fallback image.
func TestFailuresMapToFallback(t *testing.T) {
	for _, err := range []error{
		artwork.ErrNoMatch,
		artwork.ErrNoImage,
		errors.New("connection refused"),
	} {
		e := artwork.New(&stubSearcher{err: err}, nil)
		assert.Equal(t, artwork.FallbackImageURL, e.ImageURL(context.Background(), song))
	}
}

func TestSuccessIsCached(t *testing.T) {
	searcher := &stubSearcher{url: "https://img.example/a"}
	cache := mapCache{}
	e := artwork.New(searcher, cache)

	assert.Equal(t, "https://img.example/a", e.ImageURL(context.Background(), song))
	assert.Equal(t, "https://img.example/a", e.ImageURL(context.Background(), song))
	assert.Equal(t, 1, searcher.calls)
}

// Failures are not cached: the next request retries the search.
func TestFailureIsNotCached(t *testing.T) {
	searcher := &stubSearcher{err: artwork.ErrNoMatch}
	cache := mapCache{}
	e := artwork.New(searcher, cache)

	assert.Equal(t, artwork.FallbackImageURL, e.ImageURL(context.Background(), song))
	assert.Equal(t, artwork.FallbackImageURL, e.ImageURL(context.Background(), song))
	assert.Equal(t, 2, searcher.calls)
	assert.Empty(t, cache)
}
