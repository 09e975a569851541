// Package main provides the offline aggregation command: recompute the
// derived review statistics on every paper and backfill missing abstract
// embeddings.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/confmesh/paperkg/internal/config"
	"github.com/confmesh/paperkg/internal/embedding"
	"github.com/confmesh/paperkg/internal/graphdb"
	"github.com/confmesh/paperkg/internal/scoring"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		statsOnly = flag.Bool("stats-only", false, "recompute review statistics, skip embeddings")
		embedOnly = flag.Bool("embeddings-only", false, "backfill embeddings, skip review statistics")
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

	if !*embedOnly {
		agg := scoring.NewAggregator(store, log.Logger)
		run, err := agg.Run(ctx, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Aggregation failed")
		}
		log.Info().
			Int("papers", run.PapersProcessed).
			Int("with_ratings", run.PapersWithRatings).
			Int("with_interactions", run.PapersWithInteractions).
			Msg("Review statistics recomputed")
	}

	if !*statsOnly {
		backfillEmbeddings(ctx, cfg, store)
	}
}

// backfillEmbeddings embeds title+abstract for papers without a stored
// vector, batch by batch until none remain.
func backfillEmbeddings(ctx context.Context, cfg *config.Config, store *graphdb.Client) {
	embedder := embedding.NewOpenAI(embedding.Options{
		BaseURL:    cfg.EmbeddingBaseURL,
		APIKey:     cfg.EmbeddingAPIKey,
		Model:      cfg.EmbeddingModel,
		Dimensions: cfg.EmbeddingDimensions,
	}, log.Logger)

	if err := store.CreateVectorIndex(ctx, embedder.Dimensions()); err != nil {
		log.Fatal().Err(err).Msg("Vector index creation failed")
	}

	total, failed := 0, 0
	for {
		batch, err := store.PapersMissingEmbedding(ctx, cfg.EmbedBatch)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load papers missing embeddings")
		}
		if len(batch) == 0 {
			break
		}

		progress := 0
		for _, paper := range batch {
			vec, err := embedder.EmbedDocument(ctx, paper.Title+"\n\n"+paper.Abstract)
			if err != nil {
				failed++
				log.Error().Err(err).Str("paper_id", paper.ID).Msg("Embedding failed, skipping paper")
				continue
			}
			if err := store.SetPaperEmbedding(ctx, paper.ID, vec); err != nil {
				failed++
				log.Error().Err(err).Str("paper_id", paper.ID).Msg("Embedding write failed")
				continue
			}
			total++
			progress++
		}

		log.Info().Int("embedded", total).Int("failed", failed).Msg("Embedding backfill progress")

		// A batch where nothing succeeded would loop forever on the same
		// papers; stop and let the operator look at the failures.
		if progress == 0 {
			break
		}
	}

	log.Info().Int("embedded", total).Int("failed", failed).Msg("Embedding backfill complete")
}
