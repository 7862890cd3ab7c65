package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/amonks/encore/drive"
	"github.com/amonks/encore/setflag"
	"github.com/amonks/encore/subcmd"
	"golang.org/x/sync/errgroup"
)

func fetch(ctx context.Context, args []string) error {
	subcmd := subcmd.New("fetch", "download missing artifacts from google drive\nrequires drive file ids, via flags or ENCORE_CATALOG_DRIVE_ID and ENCORE_SIMILARITY_DRIVE_ID")
	var arts artifacts
	arts.registerFlags(subcmd)
	which := setflag.New("catalog", "similarity")
	subcmd.Var(which, "artifacts", "which artifacts to download: 'catalog', 'similarity', or both")
	if err := subcmd.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	if len(which.List()) == 0 {
		if err := which.Set("catalog,similarity"); err != nil {
			return err
		}
	}

	client := drive.New(arts.cacheDir)

	g, ctx := errgroup.WithContext(ctx)
	if which.Has("catalog") {
		g.Go(func() error {
			return downloadArtifact(ctx, client, "catalog", arts.catalogDriveID, arts.catalogPath)
		})
	}
	if which.Has("similarity") {
		g.Go(func() error {
			return downloadArtifact(ctx, client, "similarity", arts.similarityDriveID, arts.similarityPath)
		})
	}
	return g.Wait()
}

func downloadArtifact(ctx context.Context, client *drive.Client, name, driveID, path string) error {
	if _, err := os.Stat(path); err == nil {
		log.Printf("%s artifact already exists at '%s'", name, path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking for %s artifact at '%s': %w", name, path, err)
	}

	if driveID == "" {
		return fmt.Errorf("no drive id configured for the %s artifact", name)
	}

	r, err := client.Download(ctx, driveID)
	if err != nil {
		return fmt.Errorf("error downloading %s artifact: %w", name, err)
	}
	defer r.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating '%s': %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("error writing '%s': %w", path, err)
	}

	log.Printf("wrote %s artifact to '%s'", name, path)

	return nil
}
