// Package similarity holds the precomputed song-to-song similarity
// matrix. The matrix is produced offline; this package only loads it
// and hands out rows.
package similarity

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// A Matrix is a square matrix of similarity scores. Matrix[i][j] is the
// similarity between catalog entries i and j. Matrix[i][i] is
// self-similarity and is never recommended.
type Matrix [][]float64

// Dim returns the matrix dimension N. The catalog this matrix was
// computed from must have exactly N entries.
func (m Matrix) Dim() int {
	return len(m)
}

// Row returns row i of the matrix.
func (m Matrix) Row(i int) []float64 {
	return m[i]
}

// Load reads a similarity matrix from r. The artifact is CSV, one row
// of float scores per line, and may be either plain or gzip-compressed;
// Load sniffs the gzip magic bytes and accepts both. Anything else is
// an error.
func Load(r io.Reader) (Matrix, error) {
	br := bufio.NewReader(r)

	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("error opening gzipped similarity artifact: %w", err)
		}
		defer gz.Close()
		return parse(gz)
	}

	return parse(br)
}

func parse(r io.Reader) (Matrix, error) {
	cr := csv.NewReader(r)

	var m Matrix
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading similarity artifact (expected CSV rows of scores, plain or gzipped): %w", err)
		}

		row := make([]float64, len(record))
		for i, field := range record {
			score, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing similarity score at row %d column %d: %w", len(m)+1, i+1, err)
			}
			row[i] = score
		}
		m = append(m, row)
	}

	if len(m) == 0 {
		return nil, fmt.Errorf("similarity artifact is empty")
	}
	for i, row := range m {
		if len(row) != len(m) {
			return nil, fmt.Errorf("similarity matrix is not square: row %d has %d columns but there are %d rows", i+1, len(row), len(m))
		}
	}

	return m, nil
}
