package graphdb

import (
	"context"
	"fmt"
)

// VectorIndexName identifies the paper abstract embedding index.
const VectorIndexName = "paper_abstract_embedding"

// schemaQueries are the range indexes backing the common lookups.
// Upsert idempotency comes from MERGE on the identity properties.
var schemaQueries = []string{
	"CREATE INDEX FOR (p:Paper) ON (p.id)",
	"CREATE INDEX FOR (p:Paper) ON (p.status)",
	"CREATE INDEX FOR (p:Paper) ON (p.conference)",
	"CREATE INDEX FOR (p:Paper) ON (p.avg_rating)",
	"CREATE INDEX FOR (p:Paper) ON (p.battle_intensity)",
	"CREATE INDEX FOR (a:Author) ON (a.authorid)",
	"CREATE INDEX FOR (a:Author) ON (a.name)",
	"CREATE INDEX FOR (r:Review) ON (r.id)",
	"CREATE INDEX FOR (r:Review) ON (r.review_type)",
	"CREATE INDEX FOR (k:Keyword) ON (k.name)",
}

// CreateSchema creates the range indexes. Index creation is best-effort:
// an index that already exists logs a warning and does not abort setup.
func (c *Client) CreateSchema(ctx context.Context) error {
	for _, q := range schemaQueries {
		if err := c.ExecuteWrite(ctx, q, nil); err != nil {
			c.log.Warn().Err(err).Str("query", q).Msg("Schema query skipped")
		}
	}
	c.log.Info().Msg("Schema creation completed")
	return nil
}

// CreateVectorIndex creates the cosine vector index over paper abstract
// embeddings. The dimension must match the embedding collaborator's
// output exactly; a mismatch surfaces as a write error at aggregation
// time, not here.
func (c *Client) CreateVectorIndex(ctx context.Context, dimension int) error {
	q := fmt.Sprintf(
		"CREATE VECTOR INDEX FOR (p:Paper) ON (p.embedding) OPTIONS {dimension: %d, similarityFunction: 'cosine'}",
		dimension,
	)
	if err := c.ExecuteWrite(ctx, q, nil); err != nil {
		c.log.Warn().Err(err).Int("dimension", dimension).Msg("Vector index creation skipped")
		return nil
	}
	c.log.Info().Int("dimension", dimension).Msg("Vector index created")
	return nil
}
