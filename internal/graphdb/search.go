package graphdb

import (
	"context"
	"strconv"
	"strings"

	"github.com/confmesh/paperkg/internal/search"
	"github.com/confmesh/paperkg/pkg/models"
)

// KeywordCandidates returns papers whose title, abstract, keywords, or
// author names contain the query or one of its terms. The text predicate
// lives here; the point weighting and threshold policy belong to the
// search package.
func (c *Client) KeywordCandidates(ctx context.Context, query string, limit int) ([]*models.Paper, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper)
		OPTIONAL MATCH (p)<-[:AUTHORED]-(a:Author)
		WITH p, collect(a.name) AS authors
		WHERE toLower(p.title) CONTAINS $query
		   OR toLower(p.abstract) CONTAINS $query
		   OR any(term IN $terms WHERE toLower(p.title) CONTAINS term)
		   OR any(name IN authors WHERE toLower(name) CONTAINS $query)
		   OR any(kw IN p.keywords WHERE kw CONTAINS $query)
		RETURN p.id AS id, p.title AS title, p.abstract AS abstract,
		       p.status AS status, p.conference AS conference,
		       p.keywords AS keywords, authors,
		       p.forum_link AS forum_link, p.pdf_link AS pdf_link,
		       p.avg_rating AS avg_rating, p.rating_count AS rating_count,
		       p.battle_intensity AS battle_intensity`+
		limitClause(limit),
		map[string]any{"query": q, "terms": strings.Fields(q)})
	if err != nil {
		return nil, err
	}

	papers := make([]*models.Paper, 0, len(rows))
	for _, row := range rows {
		papers = append(papers, paperFromRow(row))
	}
	return papers, nil
}

// SemanticCandidates runs the vector index top-k primitive over paper
// abstract embeddings. FalkorDB reports cosine distance; candidates are
// converted to similarity (1 - distance) so callers filter and rank on
// a higher-is-better score, matching the keyword branch's orientation.
func (c *Client) SemanticCandidates(ctx context.Context, embedding []float32, limit int, minScore float64) ([]search.SemanticHit, error) {
	rows, err := c.ExecuteQuery(ctx, `
		CALL db.idx.vector.queryNodes('Paper', 'embedding', `+strconv.Itoa(limit)+`, vecf32($embedding))
		YIELD node, score
		WITH node, score
		OPTIONAL MATCH (node)<-[:AUTHORED]-(a:Author)
		WITH node, score, collect(a.name) AS authors
		RETURN node.id AS id, node.title AS title, node.abstract AS abstract,
		       node.status AS status, node.conference AS conference,
		       node.keywords AS keywords, authors,
		       node.avg_rating AS avg_rating, node.rating_count AS rating_count,
		       node.battle_intensity AS battle_intensity,
		       score
		ORDER BY score ASC`,
		map[string]any{"embedding": embedding})
	if err != nil {
		return nil, err
	}

	hits := make([]search.SemanticHit, 0, len(rows))
	for _, row := range rows {
		distance, _ := row.Float("score")
		similarity := 1.0 - distance
		if similarity < minScore {
			continue
		}
		hits = append(hits, search.SemanticHit{
			Paper: paperFromRow(row),
			Score: similarity,
		})
	}
	return hits, nil
}
