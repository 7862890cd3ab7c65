// Package catalog owns the aligned pair of artifacts the recommender
// works from: the ordered song table and the similarity matrix. A Store
// can only be constructed when the two are aligned, so every consumer
// downstream can assume `len(songs) == matrix.Dim()`.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amonks/encore/data"
	"github.com/amonks/encore/similarity"
)

// ErrNotFound is returned by Resolve when the given title isn't in the
// catalog.
var ErrNotFound = errors.New("song not found in catalog")

// An AlignmentError means the catalog and the similarity matrix were
// not produced from the same dataset. Nothing can be served from a
// misaligned pair.
type AlignmentError struct {
	Songs int
	Dim   int
}

func (err *AlignmentError) Error() string {
	return fmt.Sprintf("catalog has %d songs but similarity matrix is %dx%d", err.Songs, err.Dim, err.Dim)
}

// New validates that songs and matrix are aligned, and returns a Store
// owning them. Returns an *AlignmentError if they are not.
func New(songs []data.Song, matrix similarity.Matrix) (*Store, error) {
	if len(songs) != matrix.Dim() {
		return nil, &AlignmentError{Songs: len(songs), Dim: matrix.Dim()}
	}
	return &Store{songs: songs, matrix: matrix}, nil
}

// A Store holds the loaded catalog and matrix. It is read-only after
// construction: safe for concurrent use with no locking.
type Store struct {
	songs  []data.Song
	matrix similarity.Matrix
}

// Resolve scans the catalog for the first song whose title exactly
// equals the input, and returns its position. The match is
// case-sensitive; duplicate titles resolve to the earliest position.
func (st *Store) Resolve(title string) (int, error) {
	for i, song := range st.songs {
		if song.Title == title {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no catalog entry titled '%s': %w", title, ErrNotFound)
}

// Song returns the song at position i.
func (st *Store) Song(i int) data.Song {
	return st.songs[i]
}

// Len returns the number of songs in the catalog.
func (st *Store) Len() int {
	return len(st.songs)
}

// Titles returns every title in catalog order, for populating the
// song selector.
func (st *Store) Titles() []string {
	titles := make([]string, len(st.songs))
	for i, song := range st.songs {
		titles[i] = song.Title
	}
	return titles
}

// Matrix returns the similarity matrix. Its dimension equals Len.
func (st *Store) Matrix() similarity.Matrix {
	return st.matrix
}

// Load reads the catalog artifact from r. The artifact is CSV with a
// header row naming at least the 'song' and 'artist' columns, in any
// order. Row order is meaningful: position is the row's index into the
// similarity matrix.
func Load(r io.Reader) ([]data.Song, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading catalog header: %w", err)
	}

	songCol, artistCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "song":
			songCol = i
		case "artist":
			artistCol = i
		}
	}
	if songCol < 0 || artistCol < 0 {
		return nil, fmt.Errorf("catalog artifact must have 'song' and 'artist' columns; got %v", header)
	}

	var songs []data.Song
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading catalog row %d: %w", len(songs)+2, err)
		}
		if songCol >= len(record) || artistCol >= len(record) {
			return nil, fmt.Errorf("catalog row %d has %d fields", len(songs)+2, len(record))
		}
		songs = append(songs, data.Song{
			Title:  record[songCol],
			Artist: record[artistCol],
		})
	}

	return songs, nil
}
