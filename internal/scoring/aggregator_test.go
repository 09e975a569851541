package scoring

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/confmesh/paperkg/pkg/models"
)

// fakeStore is an in-memory Store for pipeline tests.
type fakeStore struct {
	papers  []PaperReviews
	updates map[string][]paperUpdate
}

type paperUpdate struct {
	ratings RatingSummary
	inter   InteractionStats
}

func newFakeStore(papers ...PaperReviews) *fakeStore {
	return &fakeStore{papers: papers, updates: make(map[string][]paperUpdate)}
}

func (f *fakeStore) PapersWithReviews(_ context.Context, paperIDs []string) ([]PaperReviews, error) {
	if len(paperIDs) == 0 {
		return f.papers, nil
	}
	want := make(map[string]struct{}, len(paperIDs))
	for _, id := range paperIDs {
		want[id] = struct{}{}
	}
	var out []PaperReviews
	for _, p := range f.papers {
		if _, ok := want[p.PaperID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdatePaperStats(_ context.Context, paperID string, ratings RatingSummary, inter InteractionStats) error {
	f.updates[paperID] = append(f.updates[paperID], paperUpdate{ratings: ratings, inter: inter})
	return nil
}

type AggregatorSuite struct {
	suite.Suite
	store *fakeStore
	agg   *Aggregator
}

func TestAggregatorSuite(t *testing.T) {
	suite.Run(t, new(AggregatorSuite))
}

func (s *AggregatorSuite) SetupTest() {
	rating := func(v float64) *float64 { return &v }
	s.store = newFakeStore(
		PaperReviews{
			PaperID: "paper-1",
			Reviews: []*models.Review{
				{
					ID:         "r1",
					ReviewType: string(models.ReviewTypeOfficial),
					Rating:     rating(6),
					Content:    models.ReviewContent{"summary": map[string]any{"value": "needs more experiments"}},
				},
				{
					ID:         "r2",
					ReviewType: string(models.ReviewTypeOfficial),
					Rating:     rating(8),
				},
				{
					ID:         "r3",
					ReplyTo:    "r1",
					ReviewType: string(models.ReviewTypeRebuttal),
					Content:    models.ReviewContent{"comment": map[string]any{"value": "we added the requested ablations"}},
				},
				{
					// Decision with no rating: never contributes to rating stats.
					ID:         "r4",
					ReviewType: string(models.ReviewTypeDecision),
				},
			},
		},
		PaperReviews{
			PaperID: "paper-2",
			Reviews: []*models.Review{
				{ID: "x1", ReviewType: string(models.ReviewTypeComment)},
			},
		},
	)
	s.agg = NewAggregator(s.store, zerolog.Nop())
}

func (s *AggregatorSuite) TestRun_ComputesRatingsAndInteractions() {
	stats, err := s.agg.Run(context.Background(), nil)

	s.Require().NoError(err)
	s.Equal(2, stats.PapersProcessed)
	s.Equal(1, stats.PapersWithRatings)
	s.Equal(1, stats.PapersWithInteractions)

	s.Require().Len(s.store.updates["paper-1"], 1)
	up := s.store.updates["paper-1"][0]
	s.Equal([]float64{6, 8}, up.ratings.Ratings)
	s.Equal(7.0, *up.ratings.Avg)
	s.Equal(2, up.ratings.Count)
	s.Equal(5, up.inter.AuthorWordCount)
	s.Equal(3, up.inter.ReviewerWordCount)
	s.Equal(2, up.inter.InteractionRounds)
	s.Greater(up.inter.BattleIntensity, 0.0)
}

func (s *AggregatorSuite) TestRun_PaperWithoutRatingsGetsEmptySummary() {
	_, err := s.agg.Run(context.Background(), nil)
	s.Require().NoError(err)

	up := s.store.updates["paper-2"][0]
	s.Nil(up.ratings.Avg)
	s.Equal(0, up.ratings.Count)
	s.Equal(0.0, up.inter.BattleIntensity)
}

func (s *AggregatorSuite) TestRun_SubsetOnlyTouchesRequestedPapers() {
	_, err := s.agg.Run(context.Background(), []string{"paper-2"})
	s.Require().NoError(err)

	s.Empty(s.store.updates["paper-1"])
	s.Len(s.store.updates["paper-2"], 1)
}

func (s *AggregatorSuite) TestRun_IsIdempotent() {
	_, err := s.agg.Run(context.Background(), nil)
	s.Require().NoError(err)
	_, err = s.agg.Run(context.Background(), nil)
	s.Require().NoError(err)

	first := s.store.updates["paper-1"][0]
	second := s.store.updates["paper-1"][1]
	s.Equal(first, second, "re-running on an unchanged review set must not drift")
}
