package graphdb

import (
	"context"

	"github.com/confmesh/paperkg/internal/scoring"
)

// PapersWithReviews loads review batches grouped per paper, for the
// given ids or for every paper that has reviews when ids is empty. This
// is the read side of the aggregation pipeline's scoring.Store contract.
func (c *Client) PapersWithReviews(ctx context.Context, paperIDs []string) ([]scoring.PaperReviews, error) {
	query := `
		MATCH (p:Paper)-[:HAS_REVIEW]->(r:Review)`
	params := map[string]any{}
	if len(paperIDs) > 0 {
		query += `
		WHERE p.id IN $paper_ids`
		params["paper_ids"] = paperIDs
	}
	query += `
		RETURN p.id AS paper_id, r.id AS id, r.replyto AS replyto,
		       r.cdate AS cdate, r.review_type AS review_type,
		       r.rating AS rating, r.content_json AS content_json
		ORDER BY p.id ASC, r.cdate ASC`

	rows, err := c.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, err
	}

	var out []scoring.PaperReviews
	index := make(map[string]int)
	for _, row := range rows {
		paperID := row.String("paper_id")
		i, ok := index[paperID]
		if !ok {
			i = len(out)
			index[paperID] = i
			out = append(out, scoring.PaperReviews{PaperID: paperID})
		}
		out[i].Reviews = append(out[i].Reviews, reviewFromRow(row))
	}
	return out, nil
}

// UpdatePaperStats overwrites a paper's derived rating and interaction
// fields. The write replaces every derived field on each run, so
// repeated runs against an unchanged review set are idempotent.
func (c *Client) UpdatePaperStats(ctx context.Context, paperID string, ratings scoring.RatingSummary, inter scoring.InteractionStats) error {
	params := map[string]any{
		"paper_id":            paperID,
		"ratings":             ratings.Ratings,
		"rating_count":        ratings.Count,
		"author_word_count":   inter.AuthorWordCount,
		"reviewer_word_count": inter.ReviewerWordCount,
		"interaction_rounds":  inter.InteractionRounds,
		"battle_intensity":    inter.BattleIntensity,
	}

	// Papers without official ratings get their aggregates cleared, not
	// defaulted; null assignment removes the property.
	ratingSet := `
		    p.avg_rating = null,
		    p.min_rating = null,
		    p.max_rating = null,`
	if ratings.Count > 0 {
		ratingSet = `
		    p.avg_rating = $avg_rating,
		    p.min_rating = $min_rating,
		    p.max_rating = $max_rating,`
		params["avg_rating"] = *ratings.Avg
		params["min_rating"] = *ratings.Min
		params["max_rating"] = *ratings.Max
	}

	return c.ExecuteWrite(ctx, `
		MATCH (p:Paper {id: $paper_id})
		SET p.ratings = $ratings,`+ratingSet+`
		    p.rating_count = $rating_count,
		    p.author_word_count = $author_word_count,
		    p.reviewer_word_count = $reviewer_word_count,
		    p.interaction_rounds = $interaction_rounds,
		    p.battle_intensity = $battle_intensity`, params)
}

// PaperText is the embedding source text for one paper.
type PaperText struct {
	ID       string
	Title    string
	Abstract string
}

// PapersMissingEmbedding returns papers that have no abstract embedding
// yet, for the embedding backfill job.
func (c *Client) PapersMissingEmbedding(ctx context.Context, limit int) ([]PaperText, error) {
	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper)
		WHERE p.embedding IS NULL AND p.abstract IS NOT NULL AND p.abstract <> ''
		RETURN p.id AS id, p.title AS title, p.abstract AS abstract`+
		limitClause(limit), nil)
	if err != nil {
		return nil, err
	}
	out := make([]PaperText, 0, len(rows))
	for _, row := range rows {
		out = append(out, PaperText{
			ID:       row.String("id"),
			Title:    row.String("title"),
			Abstract: row.String("abstract"),
		})
	}
	return out, nil
}

// SetPaperEmbedding stores a paper's abstract embedding behind the
// vector index.
func (c *Client) SetPaperEmbedding(ctx context.Context, paperID string, embedding []float32) error {
	return c.ExecuteWrite(ctx, `
		MATCH (p:Paper {id: $paper_id})
		SET p.embedding = vecf32($embedding)`,
		map[string]any{"paper_id": paperID, "embedding": embedding})
}

var _ scoring.Store = (*Client)(nil)
