package main

import (
	"log"
	"os"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/db"
	"github.com/amonks/encore/spotify"
	"github.com/amonks/encore/subcmd"
)

func registerDBFlag(sc *subcmd.Subcommand) *string {
	return sc.String("db", envOr("ENCORE_DB", "encore.db"), "path to the artwork cache database")
}

// newEnricher builds the artwork enricher from the environment. Missing
// spotify credentials disable live lookup, not the recommender: every
// result just carries the fallback image.
func newEnricher(dbFile string) (*artwork.Enricher, func() error, error) {
	var searcher artwork.Searcher
	clientID, clientSecret := os.Getenv("SPOTIFY_CLIENT_ID"), os.Getenv("SPOTIFY_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		searcher = spotify.New(clientID, clientSecret)
	} else {
		log.Printf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are not set; all artwork will be the fallback image")
	}

	cache, err := db.Open(dbFile)
	if err != nil {
		return nil, nil, err
	}

	return artwork.New(searcher, cache), cache.Close, nil
}
