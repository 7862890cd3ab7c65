package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/amonks/encore/data"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DB represents our sqlite3 database file. It holds the artwork cache;
// the catalog and similarity artifacts themselves stay file-backed.
type DB struct{ *gorm.DB }

//go:embed schema.sql
var schema string

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}

	db := &DB{gdb}

	if err := db.Exec(schema).Error; err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// GetArtwork looks up a cached album-art URL. The bool reports whether
// the cache had one.
func (db *DB) GetArtwork(title, artist string) (string, bool, error) {
	var art data.Artwork
	if err := db.
		Table("artworks").
		Where("title = ? and artist = ?", title, artist).
		First(&art).
		Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("error getting artwork for '%s': %w", title, err)
	}
	return art.ImageURL, true, nil
}

// PutArtwork caches a resolved album-art URL, doing nothing if one is
// already cached for the pair.
func (db *DB) PutArtwork(title, artist, imageURL string) error {
	if imageURL == "" {
		return fmt.Errorf("no image url")
	}
	if err := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&data.Artwork{
			Title:     title,
			Artist:    artist,
			ImageURL:  imageURL,
			FetchedAt: sql.NullTime{Time: time.Now(), Valid: true},
		}).
		Error; err != nil {
		return fmt.Errorf("error inserting artwork for '%s': %w", title, err)
	}
	return nil
}

func (db *DB) CountArtworks() (int, error) {
	var count int64
	if err := db.
		Table("artworks").
		Count(&count).
		Error; err != nil {
		return 0, fmt.Errorf("error counting artworks: %w", err)
	}
	return int(count), nil
}
