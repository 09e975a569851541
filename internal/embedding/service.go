// Package embedding provides text embedding generation for semantic
// search, backed by an OpenAI-compatible REST endpoint.
package embedding

import (
	"context"
)

// Service generates fixed-length embedding vectors. The vector length
// must match the storage layer's vector index dimension exactly.
type Service interface {
	// EmbedQuery embeds free text in query mode, for search requests.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocument embeds stored content in document mode, for the
	// offline backfill of paper abstract embeddings.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the configured embedding vector size.
	Dimensions() int
}
