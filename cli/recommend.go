package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/recommend"
	"github.com/amonks/encore/subcmd"
)

func recommendCmd(ctx context.Context, args []string) error {
	subcmd := subcmd.New("recommend", "print songs similar to the given song")
	subcmd.SetArg("title", "string", "exact song title from the catalog (required)")
	var arts artifacts
	arts.registerFlags(subcmd)
	var (
		count   = subcmd.Int("count", recommend.DefaultCount, "number of songs to return")
		withArt = subcmd.Bool("artwork", false, "look up album art for each result")
		dbFile  = registerDBFlag(subcmd)
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	title := strings.Join(subcmd.Args(), " ")
	if title == "" {
		return fmt.Errorf("a song title is required")
	}

	store, err := arts.loadStore(ctx)
	if err != nil {
		return err
	}

	var enricher *artwork.Enricher
	if *withArt {
		var closeCache func() error
		enricher, closeCache, err = newEnricher(*dbFile)
		if err != nil {
			return err
		}
		defer closeCache()
	}

	rec := recommend.New(store, enricher)
	recs, err := rec.For(ctx, title, *count)
	if errors.Is(err, catalog.ErrNotFound) {
		fmt.Printf("no catalog entry titled '%s'\n", title)
		return nil
	} else if err != nil {
		return fmt.Errorf("error recommending for '%s': %w", title, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := []string{"song", "artist", "score"}
	if *withArt {
		header = append(header, "artwork")
	}
	fmt.Fprintf(tw, strings.Join(header, "\t")+"\n")

	for _, r := range recs {
		row := []string{r.Title, r.Artist, fmt.Sprintf("%f", r.Score)}
		if *withArt {
			row = append(row, r.ImageURL)
		}
		fmt.Fprintf(tw, strings.Join(row, "\t")+"\n")
	}

	tw.Flush()

	return nil
}
