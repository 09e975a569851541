// Package main provides the JSONL paper dump ingestion command.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/confmesh/paperkg/internal/config"
	"github.com/confmesh/paperkg/internal/graphdb"
	"github.com/confmesh/paperkg/internal/ingest"
	"github.com/confmesh/paperkg/pkg/models"
)

// defaultDumps maps the per-conference dump files inside the data dir.
var defaultDumps = []struct {
	File       string
	Conference models.Conference
}{
	{"iclr2025.jsonl", models.ConferenceICLR},
	{"icml2025.jsonl", models.ConferenceICML},
	{"neurips2025.jsonl", models.ConferenceNeurIPS},
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		file       = flag.String("file", "", "ingest a single JSONL file instead of the data dir")
		conference = flag.String("conference", "", "conference for -file (ICLR, ICML, NeurIPS)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	store, err := graphdb.Connect(cfg.FalkorDBURL, cfg.GraphName, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to graph database")
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Schema creation failed")
	}

	pipe := ingest.NewPipeline(store, log.Logger)

	if *file != "" {
		if *conference == "" {
			log.Fatal().Msg("-conference is required with -file")
		}
		if _, err := pipe.IngestFile(ctx, *file, *conference); err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("Ingestion failed")
		}
		return
	}

	for _, dump := range defaultDumps {
		path := filepath.Join(cfg.DataDir, dump.File)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("Dump file not found, skipping")
			continue
		}
		if _, err := pipe.IngestFile(ctx, path, string(dump.Conference)); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Ingestion failed")
		}
	}
}
