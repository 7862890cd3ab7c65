package main

import (
	"context"
	"fmt"

	"github.com/amonks/encore/recommend"
	"github.com/amonks/encore/server"
	"github.com/amonks/encore/subcmd"
)

func serve(ctx context.Context, args []string) error {
	subcmd := subcmd.New("serve", "run the recommendation web ui")
	var arts artifacts
	arts.registerFlags(subcmd)
	var (
		port   = subcmd.Int("port", 9999, "http port")
		dbFile = registerDBFlag(subcmd)
	)
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	store, err := arts.loadStore(ctx)
	if err != nil {
		return err
	}

	enricher, closeCache, err := newEnricher(*dbFile)
	if err != nil {
		return err
	}
	defer closeCache()

	rec := recommend.New(store, enricher)

	addr := fmt.Sprintf(":%d", *port)
	return server.Run(ctx, store, rec, addr)
}
