package main

import (
	"log"

	"github.com/harborwatch/marinetrack/internal/api"
	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/database"
	"github.com/harborwatch/marinetrack/internal/repository"
	"github.com/harborwatch/marinetrack/internal/risk"
	"github.com/harborwatch/marinetrack/internal/service"
	"github.com/harborwatch/marinetrack/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	trackStore := store.NewTrackStore()

	// Optional sqlite archive: replay on startup, write-through on ingest
	var archive *repository.ArchiveRepository
	if cfg.DBPath != "" {
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			log.Fatal("Failed to open archive database: ", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to migrate archive database: ", err)
		}

		archive = repository.NewArchiveRepository(db)
		if err := archive.ReplayInto(trackStore); err != nil {
			log.Fatal("Failed to replay archive: ", err)
		}
	}

	scorer := risk.NewScorer(cfg.SensitiveZones, cfg.SlowSpeedKnots, nil, risk.NoAnomaly{})
	ingest := service.NewIngestService(trackStore, scorer, archive)
	query := service.NewQueryService(trackStore, cfg)

	router := api.SetupRouter(ingest, query)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
