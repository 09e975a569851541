// Package search provides paper retrieval: weighted keyword scoring,
// semantic vector search, and reciprocal-rank fusion of the two.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/confmesh/paperkg/pkg/models"
)

// Keyword relevance bonuses. All bonuses are independent and additive: a
// paper matching several criteria accumulates every applicable one.
const (
	// ScoreTitleExact is awarded when the title contains the full query.
	ScoreTitleExact = 100
	// ScoreTitleTerm is awarded when the title contains any single
	// whitespace-split query term.
	ScoreTitleTerm = 50
	// ScoreAuthor is awarded when any author name contains the query.
	ScoreAuthor = 80
	// ScoreKeyword is awarded when any keyword contains the query.
	ScoreKeyword = 40
	// ScoreAbstract is awarded when the abstract contains the query.
	ScoreAbstract = 20
)

// CandidateStore fetches keyword candidates from storage. The store may
// pre-filter with its own text predicates; the point weighting and the
// score>0 threshold live here, not in the store.
type CandidateStore interface {
	KeywordCandidates(ctx context.Context, query string, limit int) ([]*models.Paper, error)
}

// KeywordHit is one scored keyword match.
type KeywordHit struct {
	Paper *models.Paper
	Score int
}

// KeywordScore computes the relevance of a paper against a free-text
// query. Matching is lower-cased containment throughout.
func KeywordScore(query string, p *models.Paper) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	score := 0
	title := strings.ToLower(p.Title)

	if strings.Contains(title, q) {
		score += ScoreTitleExact
	}
	for _, term := range strings.Fields(q) {
		if strings.Contains(title, term) {
			score += ScoreTitleTerm
			break
		}
	}
	for _, author := range p.Authors {
		if strings.Contains(strings.ToLower(author), q) {
			score += ScoreAuthor
			break
		}
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), q) {
			score += ScoreKeyword
			break
		}
	}
	if strings.Contains(strings.ToLower(p.Abstract), q) {
		score += ScoreAbstract
	}

	return score
}

// rankKeywordHits scores candidates, drops non-matches, and orders them
// by score descending with paper id as the stable tiebreak.
func rankKeywordHits(query string, candidates []*models.Paper, limit int) []KeywordHit {
	hits := make([]KeywordHit, 0, len(candidates))
	for _, p := range candidates {
		if score := KeywordScore(query, p); score > 0 {
			hits = append(hits, KeywordHit{Paper: p, Score: score})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Paper.ID < hits[j].Paper.ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
