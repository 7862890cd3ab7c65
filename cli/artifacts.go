package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amonks/encore/catalog"
	"github.com/amonks/encore/data"
	"github.com/amonks/encore/drive"
	"github.com/amonks/encore/similarity"
	"github.com/amonks/encore/subcmd"
)

// artifacts locates the two static inputs: the catalog table and the
// similarity matrix. Each is a local file first, and a google drive
// download if the file is missing and an id is configured.
type artifacts struct {
	catalogPath       string
	similarityPath    string
	catalogDriveID    string
	similarityDriveID string
	cacheDir          string
}

func (a *artifacts) registerFlags(sc *subcmd.Subcommand) {
	sc.StringVar(&a.catalogPath, "catalog",
		envOr("ENCORE_CATALOG", "catalog.csv"),
		"path to the catalog artifact")
	sc.StringVar(&a.similarityPath, "similarity",
		envOr("ENCORE_SIMILARITY", "similarity.csv.gz"),
		"path to the similarity artifact")
	sc.StringVar(&a.catalogDriveID, "catalog-drive-id",
		os.Getenv("ENCORE_CATALOG_DRIVE_ID"),
		"google drive file id for the catalog, used when the file is missing")
	sc.StringVar(&a.similarityDriveID, "similarity-drive-id",
		os.Getenv("ENCORE_SIMILARITY_DRIVE_ID"),
		"google drive file id for the similarity matrix, used when the file is missing")
	sc.StringVar(&a.cacheDir, "cache-dir",
		envOr("ENCORE_CACHE_DIR", ".encore-cache"),
		"directory for cached downloads")
}

// loadStore loads both artifacts and validates their alignment. Nothing
// downstream can see a misaligned pair.
func (a *artifacts) loadStore(ctx context.Context) (*catalog.Store, error) {
	songs, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	matrix, err := a.loadSimilarity(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.New(songs, matrix)
}

func (a *artifacts) loadCatalog(ctx context.Context) ([]data.Song, error) {
	r, err := a.open(ctx, "catalog", a.catalogPath, a.catalogDriveID)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	songs, err := catalog.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error loading catalog artifact '%s': %w", a.catalogPath, err)
	}
	return songs, nil
}

func (a *artifacts) loadSimilarity(ctx context.Context) (similarity.Matrix, error) {
	r, err := a.open(ctx, "similarity", a.similarityPath, a.similarityDriveID)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	matrix, err := similarity.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error loading similarity artifact '%s': %w", a.similarityPath, err)
	}
	return matrix, nil
}

func (a *artifacts) open(ctx context.Context, name, path, driveID string) (io.ReadCloser, error) {
	if _, err := os.Stat(path); err == nil {
		return os.Open(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error checking for %s artifact at '%s': %w", name, path, err)
	}

	if driveID == "" {
		return nil, fmt.Errorf("%s artifact '%s' does not exist and no drive id is configured", name, path)
	}

	return drive.New(a.cacheDir).Download(ctx, driveID)
}
