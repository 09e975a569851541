package scoring

import (
	"math"

	"github.com/confmesh/paperkg/pkg/models"
)

// Factor weights for the intensity score. Word volume dominates, then
// reply depth, review count, and finally how balanced the exchange was.
const (
	wordWeight    = 0.35
	depthWeight   = 0.30
	reviewWeight  = 0.20
	balanceWeight = 0.15

	// Normalization caps: ~10000 words, ~10 reply rounds, ~20 reviews.
	wordCap   = 10000.0
	depthCap  = 10.0
	reviewCap = 20.0
)

// InteractionStats are the derived discussion statistics for one paper.
type InteractionStats struct {
	AuthorWordCount   int
	ReviewerWordCount int
	InteractionRounds int
	BattleIntensity   float64
}

// BattleIntensity combines word volume, reply depth, review count, and
// author/reviewer balance into a normalized [0,1] score, rounded to 3
// decimals. Returns 0.0 when both word counts are zero.
//
// The balance denominator is floored at 1, so a fully one-sided
// discussion has balance 0 even when one side wrote a lot; an exchange
// nobody answered is not a battle.
func BattleIntensity(authorWords, reviewerWords, maxDepth, numReviews int) float64 {
	if authorWords == 0 && reviewerWords == 0 {
		return 0.0
	}

	totalWords := authorWords + reviewerWords

	wordFactor := math.Min(1.0, math.Sqrt(float64(totalWords)/wordCap))
	depthFactor := math.Min(1.0, float64(maxDepth)/depthCap)
	reviewFactor := math.Min(1.0, float64(numReviews)/reviewCap)

	minWords := math.Min(float64(authorWords), float64(reviewerWords))
	maxWords := math.Max(math.Max(float64(authorWords), float64(reviewerWords)), 1)
	balanceFactor := minWords / maxWords

	intensity := wordWeight*wordFactor +
		depthWeight*depthFactor +
		reviewWeight*reviewFactor +
		balanceWeight*balanceFactor

	return math.Round(math.Min(1.0, intensity)*1000) / 1000
}

// AnalyzeInteractions computes the full interaction statistics for one
// paper's review batch. Rebuttals count toward the author side; every
// other review type (official reviews, meta reviews, decisions, comments,
// unclassified) counts toward the reviewer side.
func AnalyzeInteractions(reviews []*models.Review) InteractionStats {
	authorWords := 0
	reviewerWords := 0
	refs := make([]ReplyRef, 0, len(reviews))

	for _, r := range reviews {
		words := CountWords(r.Content.FullText())
		if models.ReviewType(r.ReviewType) == models.ReviewTypeRebuttal {
			authorWords += words
		} else {
			reviewerWords += words
		}
		refs = append(refs, ReplyRef{ID: r.ID, ReplyTo: r.ReplyTo})
	}

	maxDepth := MaxReplyDepth(refs)

	return InteractionStats{
		AuthorWordCount:   authorWords,
		ReviewerWordCount: reviewerWords,
		InteractionRounds: maxDepth,
		BattleIntensity:   BattleIntensity(authorWords, reviewerWords, maxDepth, len(reviews)),
	}
}
