package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/confmesh/paperkg/pkg/models"
)

type fakeCandidateStore struct {
	papers    []*models.Paper
	err       error
	lastLimit int
	calls     int
}

func (f *fakeCandidateStore) KeywordCandidates(_ context.Context, _ string, limit int) ([]*models.Paper, error) {
	f.calls++
	f.lastLimit = limit
	return f.papers, f.err
}

type fakeVectorStore struct {
	hits         []SemanticHit
	err          error
	lastLimit    int
	lastMinScore float64
	calls        int
}

func (f *fakeVectorStore) SemanticCandidates(_ context.Context, _ []float32, limit int, minScore float64) ([]SemanticHit, error) {
	f.calls++
	f.lastLimit = limit
	f.lastMinScore = minScore
	return f.hits, f.err
}

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vec, f.err
}

type RetrieverSuite struct {
	suite.Suite
	papers   *fakeCandidateStore
	vectors  *fakeVectorStore
	embedder *fakeEmbedder

	paperA, paperB, paperC, paperD *models.Paper
}

func TestRetrieverSuite(t *testing.T) {
	suite.Run(t, new(RetrieverSuite))
}

func (s *RetrieverSuite) SetupTest() {
	// Keyword scores rank these A > B > C for the query "graph":
	// A matches the title (150), B an author (80), C a keyword (40).
	s.paperA = &models.Paper{ID: "A", Title: "Graph Neural Networks"}
	s.paperB = &models.Paper{ID: "B", Title: "Unrelated", Authors: []string{"Anna Graphova"}}
	s.paperC = &models.Paper{ID: "C", Title: "Unrelated", Keywords: []string{"graph learning"}}
	s.paperD = &models.Paper{ID: "D", Title: "Diffusion Models"}

	s.papers = &fakeCandidateStore{papers: []*models.Paper{s.paperA, s.paperB, s.paperC}}
	s.vectors = &fakeVectorStore{hits: []SemanticHit{
		{Paper: s.paperB, Score: 0.91},
		{Paper: s.paperD, Score: 0.84},
		{Paper: s.paperA, Score: 0.77},
	}}
	s.embedder = &fakeEmbedder{vec: []float32{0.1, 0.2, 0.3}}
}

func (s *RetrieverSuite) newRetriever() *Retriever {
	return NewRetriever(s.papers, s.vectors, s.embedder, zerolog.Nop())
}

// =============================================================================
// FUSION
// =============================================================================

func (s *RetrieverSuite) TestSearch_Hybrid_RRFOrdering() {
	// Keyword ranks: A=0, B=1, C=2. Semantic ranks: B=0, D=1, A=2.
	// RRF: A=1/60+1/62, B=1/61+1/60, C=1/62, D=1/61 -> order B, A, D, C.
	results, err := s.newRetriever().Search(context.Background(), "graph", ModeHybrid, 3)

	s.Require().NoError(err)
	s.Require().Len(results, 3, "limit truncates C")
	s.Equal("B", results[0].Paper.ID)
	s.Equal("A", results[1].Paper.ID)
	s.Equal("D", results[2].Paper.ID)

	s.InDelta(1.0/61+1.0/60, results[0].Score, 1e-9)
	s.InDelta(1.0/60+1.0/62, results[1].Score, 1e-9)
	s.InDelta(1.0/61, results[2].Score, 1e-9)
}

func (s *RetrieverSuite) TestSearch_Hybrid_KeepsProvenance() {
	results, err := s.newRetriever().Search(context.Background(), "graph", ModeHybrid, 10)
	s.Require().NoError(err)

	b := results[0]
	s.Require().NotNil(b.Keyword)
	s.Require().NotNil(b.Semantic)
	s.Equal(1, b.Keyword.Rank)
	s.Equal(80.0, b.Keyword.Score)
	s.Equal(0, b.Semantic.Rank)
	s.Equal(0.91, b.Semantic.Score)

	// C matched only the keyword branch.
	var c *Result
	for _, r := range results {
		if r.Paper.ID == "C" {
			c = r
		}
	}
	s.Require().NotNil(c)
	s.NotNil(c.Keyword)
	s.Nil(c.Semantic)
}

func (s *RetrieverSuite) TestSearch_RequestsDoubleCandidates() {
	_, err := s.newRetriever().Search(context.Background(), "graph", ModeHybrid, 5)
	s.Require().NoError(err)

	s.Equal(10, s.papers.lastLimit)
	s.Equal(10, s.vectors.lastLimit)
	s.Equal(DefaultMinSemanticScore, s.vectors.lastMinScore)
}

func (s *RetrieverSuite) TestSearch_WithMinScoreReachesVectorStore() {
	r := NewRetriever(s.papers, s.vectors, s.embedder, zerolog.Nop(), WithMinScore(0.55))

	_, err := r.Search(context.Background(), "graph", ModeHybrid, 5)
	s.Require().NoError(err)
	s.Equal(0.55, s.vectors.lastMinScore)
}

func (s *RetrieverSuite) TestSearch_NonPositiveMinScoreKeepsDefault() {
	r := NewRetriever(s.papers, s.vectors, s.embedder, zerolog.Nop(), WithMinScore(0))

	_, err := r.Search(context.Background(), "graph", ModeSemantic, 5)
	s.Require().NoError(err)
	s.Equal(DefaultMinSemanticScore, s.vectors.lastMinScore)
}

// =============================================================================
// MODES
// =============================================================================

func (s *RetrieverSuite) TestSearch_KeywordMode_SkipsSemanticEntirely() {
	results, err := s.newRetriever().Search(context.Background(), "graph", ModeKeyword, 10)

	s.Require().NoError(err)
	s.Equal(0, s.embedder.calls)
	s.Equal(0, s.vectors.calls)
	s.Require().Len(results, 3)
	s.Equal("A", results[0].Paper.ID)
	s.Nil(results[0].Semantic)
}

func (s *RetrieverSuite) TestSearch_SemanticMode_SkipsKeyword() {
	results, err := s.newRetriever().Search(context.Background(), "graph", ModeSemantic, 10)

	s.Require().NoError(err)
	s.Equal(0, s.papers.calls)
	s.Require().Len(results, 3)
	s.Equal("B", results[0].Paper.ID)
	s.Nil(results[0].Keyword)
}

// =============================================================================
// DEGRADED MODES
// =============================================================================

func (s *RetrieverSuite) TestSearch_Hybrid_SemanticFailureDegradesToKeyword() {
	s.vectors.err = errors.New("vector index unavailable")

	results, err := s.newRetriever().Search(context.Background(), "graph", ModeHybrid, 10)

	s.Require().NoError(err, "semantic failure must not fail the request")
	s.Require().Len(results, 3)
	s.Equal("A", results[0].Paper.ID)
	for _, r := range results {
		s.Nil(r.Semantic)
	}
}

func (s *RetrieverSuite) TestSearch_EmbeddingFailureFallsBackToKeyword() {
	s.embedder.err = errors.New("embedding model down")

	results, err := s.newRetriever().Search(context.Background(), "graph", ModeSemantic, 10)

	s.Require().NoError(err)
	s.Equal(0, s.vectors.calls)
	s.Require().Len(results, 3)
	s.Equal("A", results[0].Paper.ID)
}

func (s *RetrieverSuite) TestSearch_SemanticMode_VectorFailureFallsBackToKeyword() {
	s.vectors.err = errors.New("index dropped")

	results, err := s.newRetriever().Search(context.Background(), "graph", ModeSemantic, 10)

	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(1, s.papers.calls)
}

func (s *RetrieverSuite) TestSearch_KeywordStoreErrorPropagates() {
	s.papers.err = errors.New("storage unreachable")

	_, err := s.newRetriever().Search(context.Background(), "graph", ModeKeyword, 10)

	s.Error(err, "no degraded mode exists for a dead keyword branch")
}
