package data

import "database/sql"

// A Song is one row of the catalog artifact. The catalog is an ordered
// sequence; a song's position in that sequence is its row (and column)
// in the similarity matrix.
//
// Titles are not unique. Lookup by title resolves to the first match by
// position.
type Song struct {
	Title  string
	Artist string
}

// A Recommendation is a song the recommender chose for a query, together
// with the similarity score it was chosen on and the album art we found
// for it. ImageURL is always populated; when no artwork could be found
// it holds the fallback image.
type Recommendation struct {
	Song

	Score    float64
	ImageURL string
}

// Artworks caches resolved album-art URLs, so that serving the same
// recommendation twice doesn't cost two catalog-API searches. Keyed by
// (title, artist).
type Artwork struct {
	Title    string `gorm:"primaryKey"`
	Artist   string `gorm:"primaryKey"`
	ImageURL string

	FetchedAt sql.NullTime
}
