// Package artwork decorates recommendations with album art. Lookup is
// best-effort and independently-failing: any failure for one song maps
// to the fallback image for that song only, and never affects the rest
// of the batch or its ordering.
package artwork

import (
	"context"
	"errors"
	"log"

	"github.com/amonks/encore/data"
)

// FallbackImageURL is served whenever we can't find album art: no
// search credentials, no match, a match with no images, or a transport
// failure. Every failure mode maps to this one value.
const FallbackImageURL = "https://i.postimg.cc/0QNxYz4V/social.png"

var (
	// ErrNoMatch means the search returned zero tracks.
	ErrNoMatch = errors.New("no matching track")

	// ErrNoImage means the matched track's album carries no images.
	ErrNoImage = errors.New("matched track has no album image")
)

// A Searcher finds the album-art URL for a song. The spotify package
// provides the real one.
type Searcher interface {
	SearchTrackImage(ctx context.Context, title, artist string) (string, error)
}

// A Cache remembers previously-resolved artwork URLs. The db package
// provides the real one. Failures are never cached.
type Cache interface {
	GetArtwork(title, artist string) (string, bool, error)
	PutArtwork(title, artist, imageURL string) error
}

// New returns an Enricher. Either collaborator may be nil: a nil
// searcher (eg, missing credentials) degrades every lookup to the
// fallback image, and a nil cache just skips caching. Ranking is never
// blocked on artwork.
func New(searcher Searcher, cache Cache) *Enricher {
	return &Enricher{searcher: searcher, cache: cache}
}

type Enricher struct {
	searcher Searcher
	cache    Cache
}

// ImageURL returns the album-art URL for the given song, or the
// fallback image. It never fails: errors are logged and absorbed.
func (e *Enricher) ImageURL(ctx context.Context, song data.Song) string {
	if e == nil || e.searcher == nil {
		return FallbackImageURL
	}

	if e.cache != nil {
		if url, ok, err := e.cache.GetArtwork(song.Title, song.Artist); err != nil {
			log.Printf("artwork cache read error for '%s': %s", song.Title, err)
		} else if ok {
			return url
		}
	}

	url, err := e.searcher.SearchTrackImage(ctx, song.Title, song.Artist)
	if err != nil {
		log.Printf("artwork lookup failed for '%s' by '%s': %s", song.Title, song.Artist, err)
		return FallbackImageURL
	}

	if e.cache != nil {
		if err := e.cache.PutArtwork(song.Title, song.Artist, url); err != nil {
			log.Printf("artwork cache write error for '%s': %s", song.Title, err)
		}
	}

	return url
}
