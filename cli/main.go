// encore recommends songs similar to a chosen song, using a
// precomputed similarity matrix, and decorates each result with album
// art from spotify.
//
// the catalog and matrix artifacts are static inputs: see the fetch
// subcommand for downloading them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/amonks/encore/sigctx"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		panic(err)
	}
}

var usage = strings.TrimSpace(`
usage: encore $cmd
valid $cmd are 'serve', 'recommend', 'fetch', 'check'
for help: encore $cmd -help
`)

func run() error {
	ctx := sigctx.New()

	// credentials come from the environment, with a .env file as
	// fallback
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}

	if len(os.Args) < 2 {
		return errors.New(usage)
	}
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "serve":
		return serve(ctx, args)

	case "recommend":
		return recommendCmd(ctx, args)

	case "fetch":
		return fetch(ctx, args)

	case "check":
		return check(ctx, args)

	default:
		return fmt.Errorf("unknown cmd: '%s'\n%s", cmd, usage)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
