// Command seed imports a track catalog and its playlists from a JSON file.
//
//	go run ./cmd/seed -file catalog.json
//
// Tracks are matched on title and artist, so running the import twice does
// not duplicate them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"gem-curator-be/internal/config"
	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/model"
	"gem-curator-be/internal/repository/specification"
	"gem-curator-be/internal/repository/unitofwork"
	"gem-curator-be/pkg/database"

	"github.com/google/uuid"
)

type catalogFile struct {
	Tracks    []trackRecord    `json:"tracks"`
	Playlists []playlistRecord `json:"playlists"`
}

type trackRecord struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	Genres    []string  `json:"genres"`
	Tempo     *float64  `json:"tempo"`
	Energy    *float64  `json:"energy"`
	Embedding []float32 `json:"embedding"`
}

type playlistRecord struct {
	Name   string    `json:"name"`
	UserId uuid.UUID `json:"user_id"`
	Tracks []string  `json:"tracks"`
}

func main() {
	file := flag.String("file", "catalog.json", "catalog JSON file")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.Open(cfg.Database.Connection, database.DefaultOptions(cfg.App.Environment))
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Error: Failed to read %s: %v", *file, err)
	}

	var catalog catalogFile
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Fatalf("Error: Invalid catalog file: %v", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to start transaction:", err)
	}

	if err := importCatalog(ctx, uow, catalog); err != nil {
		_ = uow.Rollback()
		log.Fatal("Error: Import failed, rolled back: ", err)
	}

	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Commit failed:", err)
	}

	total, err := uow.TrackRepository().Count(ctx, specification.HasEmbedding{})
	if err != nil {
		log.Printf("Warn: Failed to count tracks: %v", err)
	}
	log.Printf("Catalog seeding completed! %d searchable tracks", total)
}

func importCatalog(ctx context.Context, uow unitofwork.UnitOfWork, catalog catalogFile) error {
	ids := make(map[string]uuid.UUID, len(catalog.Tracks))
	var fresh []*entity.Track
	var freshKeys []string

	log.Println("Seeding Tracks...")
	for _, rec := range catalog.Tracks {
		if len(rec.Embedding) != model.EmbeddingDimensions {
			return fmt.Errorf("track %q has %d embedding dimensions, want %d", rec.Key, len(rec.Embedding), model.EmbeddingDimensions)
		}

		existing, err := uow.TrackRepository().FindOne(ctx,
			specification.Filter("title", rec.Title),
			specification.Filter("artist", rec.Artist),
		)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Printf("Track '%s - %s' already exists, skipping...", rec.Artist, rec.Title)
			ids[rec.Key] = existing.Id
			continue
		}

		fresh = append(fresh, &entity.Track{
			Title:     rec.Title,
			Artist:    rec.Artist,
			Album:     rec.Album,
			Genres:    rec.Genres,
			Tempo:     rec.Tempo,
			Energy:    rec.Energy,
			Embedding: rec.Embedding,
		})
		freshKeys = append(freshKeys, rec.Key)
	}

	if err := uow.TrackRepository().CreateBulk(ctx, fresh); err != nil {
		return fmt.Errorf("create tracks: %w", err)
	}
	for i, t := range fresh {
		ids[freshKeys[i]] = t.Id
	}
	log.Printf("Created %d tracks", len(fresh))

	log.Println("Seeding Playlists...")
	for _, rec := range catalog.Playlists {
		playlist := &entity.Playlist{Name: rec.Name, UserId: rec.UserId}
		if err := uow.PlaylistRepository().Create(ctx, playlist); err != nil {
			return fmt.Errorf("create playlist %q: %w", rec.Name, err)
		}

		trackIds := make([]uuid.UUID, 0, len(rec.Tracks))
		for _, key := range rec.Tracks {
			id, ok := ids[key]
			if !ok {
				return fmt.Errorf("playlist %q references unknown track %q", rec.Name, key)
			}
			trackIds = append(trackIds, id)
		}
		if err := uow.PlaylistRepository().AddTracks(ctx, playlist.Id, trackIds); err != nil {
			return fmt.Errorf("add tracks to %q: %w", rec.Name, err)
		}
		log.Printf("Created playlist: %s (%s, %d tracks)", rec.Name, playlist.Id, len(trackIds))
	}
	return nil
}
