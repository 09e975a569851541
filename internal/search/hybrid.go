package search

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/confmesh/paperkg/pkg/models"
)

// Mode selects which retrieval branches run.
type Mode string

const (
	ModeKeyword  Mode = "keyword"
	ModeSemantic Mode = "semantic"
	ModeHybrid   Mode = "hybrid"
)

const (
	// rrfK is the reciprocal-rank fusion smoothing constant.
	rrfK = 60

	// candidateMultiplier oversizes each branch so fusion has enough
	// overlap to work with before truncating to the caller's limit.
	candidateMultiplier = 2

	// DefaultMinSemanticScore is the minimum vector similarity for a
	// semantic candidate to be considered at all.
	DefaultMinSemanticScore = 0.3
)

// SemanticHit is one vector search match with its raw similarity score.
type SemanticHit struct {
	Paper *models.Paper
	Score float64
}

// VectorStore runs the storage layer's vector-similarity top-k primitive.
type VectorStore interface {
	SemanticCandidates(ctx context.Context, embedding []float32, limit int, minScore float64) ([]SemanticHit, error)
}

// Embedder produces a query embedding for free text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// BranchMatch records where a result ranked within one retrieval branch,
// kept for downstream explainability.
type BranchMatch struct {
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Result is one fused search result. Score is the accumulated RRF score;
// Keyword/Semantic are non-nil for each branch that matched the paper.
type Result struct {
	Paper    *models.Paper `json:"paper"`
	Score    float64       `json:"score"`
	Keyword  *BranchMatch  `json:"keyword,omitempty"`
	Semantic *BranchMatch  `json:"semantic,omitempty"`
}

// Retriever fuses keyword and semantic search into one ranked list.
type Retriever struct {
	log      zerolog.Logger
	papers   CandidateStore
	vectors  VectorStore
	embedder Embedder
	minScore float64
}

// Option customizes a Retriever.
type Option func(*Retriever)

// WithMinScore overrides the minimum semantic similarity threshold.
// Non-positive values keep the default.
func WithMinScore(minScore float64) Option {
	return func(r *Retriever) {
		if minScore > 0 {
			r.minScore = minScore
		}
	}
}

// NewRetriever creates a hybrid retriever over the given collaborators.
func NewRetriever(papers CandidateStore, vectors VectorStore, embedder Embedder, log zerolog.Logger, opts ...Option) *Retriever {
	r := &Retriever{
		papers:   papers,
		vectors:  vectors,
		embedder: embedder,
		minScore: DefaultMinSemanticScore,
		log:      log.With().Str("component", "retriever").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search produces at most limit fused results for the query.
//
// Keyword mode runs only the keyword branch. Semantic mode runs only the
// vector branch, falling back to keyword when embedding generation or the
// vector index fails. Hybrid runs both branches concurrently and fuses
// them; a failed semantic branch degrades to keyword-only fusion instead
// of failing the request.
func (r *Retriever) Search(ctx context.Context, query string, mode Mode, limit int) ([]*Result, error) {
	if mode == "" {
		mode = ModeHybrid
	}

	var embedding []float32
	if mode == ModeSemantic || mode == ModeHybrid {
		var err error
		embedding, err = r.embedder.EmbedQuery(ctx, query)
		if err != nil {
			r.log.Warn().Err(err).Str("mode", string(mode)).Msg("Embedding generation failed, degrading to keyword search")
			embedding = nil
			mode = ModeKeyword
		}
	}

	fetch := limit * candidateMultiplier

	var (
		kwHits  []KeywordHit
		semHits []SemanticHit
	)

	g, gctx := errgroup.WithContext(ctx)

	if mode != ModeSemantic {
		g.Go(func() error {
			candidates, err := r.papers.KeywordCandidates(gctx, query, fetch)
			if err != nil {
				return err
			}
			kwHits = rankKeywordHits(query, candidates, fetch)
			return nil
		})
	}

	if embedding != nil {
		g.Go(func() error {
			hits, err := r.vectors.SemanticCandidates(gctx, embedding, fetch, r.minScore)
			if err != nil {
				// Degraded mode, not a request failure.
				r.log.Warn().Err(err).Msg("Semantic search failed, degrading to keyword-only")
				return nil
			}
			semHits = hits
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Semantic-only mode with a dead vector branch still owes the caller
	// an answer: degrade to the keyword branch.
	if mode == ModeSemantic && semHits == nil {
		candidates, err := r.papers.KeywordCandidates(ctx, query, fetch)
		if err != nil {
			return nil, err
		}
		kwHits = rankKeywordHits(query, candidates, fetch)
	}

	return fuse(kwHits, semHits, limit), nil
}

// fuse merges the ranked branch results with reciprocal-rank fusion:
// every appearance contributes 1/(rrfK+rank) with 0-based ranks, and a
// paper in both lists sums its two contributions, never averages them.
func fuse(kwHits []KeywordHit, semHits []SemanticHit, limit int) []*Result {
	byID := make(map[string]*Result)

	for rank, hit := range kwHits {
		res, ok := byID[hit.Paper.ID]
		if !ok {
			res = &Result{Paper: hit.Paper}
			byID[hit.Paper.ID] = res
		}
		res.Score += 1.0 / float64(rrfK+rank)
		res.Keyword = &BranchMatch{Rank: rank, Score: float64(hit.Score)}
	}

	for rank, hit := range semHits {
		res, ok := byID[hit.Paper.ID]
		if !ok {
			res = &Result{Paper: hit.Paper}
			byID[hit.Paper.ID] = res
		}
		res.Score += 1.0 / float64(rrfK+rank)
		res.Semantic = &BranchMatch{Rank: rank, Score: hit.Score}
	}

	fused := make([]*Result, 0, len(byID))
	for _, res := range byID {
		fused = append(fused, res)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].Paper.ID < fused[j].Paper.ID
	})
	if limit > 0 && len(fused) > limit {
		fused = fused[:limit]
	}
	return fused
}
