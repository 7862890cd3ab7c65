package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/db"
	"github.com/amonks/encore/subcmd"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var humanPrinter = message.NewPrinter(language.English)

// check loads both artifacts and reports whether they are aligned. This
// is the same validation serve and recommend run at startup, surfaced
// as its own command so a new artifact pair can be vetted before
// deployment.
func check(ctx context.Context, args []string) error {
	subcmd := subcmd.New("check", "load both artifacts and report their consistency")
	var arts artifacts
	arts.registerFlags(subcmd)
	dbFile := registerDBFlag(subcmd)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	songs, err := arts.loadCatalog(ctx)
	if err != nil {
		return err
	}
	humanPrinter.Printf("  %d\tsongs in catalog\n", len(songs))

	matrix, err := arts.loadSimilarity(ctx)
	if err != nil {
		return err
	}
	humanPrinter.Printf("  %dx%d\tsimilarity matrix\n", matrix.Dim(), matrix.Dim())

	if _, err := os.Stat(*dbFile); err == nil {
		cache, err := db.Open(*dbFile)
		if err != nil {
			return err
		}
		defer cache.Close()
		artworks, err := cache.CountArtworks()
		if err != nil {
			return err
		}
		humanPrinter.Printf("  %d\tcached artworks\n", artworks)
	}

	if _, err := catalog.New(songs, matrix); err != nil {
		var alignErr *catalog.AlignmentError
		if errors.As(err, &alignErr) {
			return fmt.Errorf("artifacts are not aligned: %w", alignErr)
		}
		return err
	}

	humanPrinter.Printf("\ncatalog and similarity matrix are aligned\n")
	return nil
}
