package scoring

// RatingSummary is the aggregate of a paper's official review ratings.
// Avg/Min/Max are nil when no ratings exist; there is no default rating.
type RatingSummary struct {
	Ratings []float64
	Avg     *float64
	Min     *float64
	Max     *float64
	Count   int
}

// AggregateRatings reduces a list of official-review ratings to summary
// statistics. The average is the raw arithmetic mean; rounding, if any,
// belongs to the presentation layer. The summary is always recomputed
// from the full rating set, never maintained incrementally.
func AggregateRatings(ratings []float64) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{Ratings: []float64{}}
	}

	sum := 0.0
	min := ratings[0]
	max := ratings[0]
	for _, r := range ratings {
		sum += r
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	avg := sum / float64(len(ratings))

	return RatingSummary{
		Ratings: ratings,
		Avg:     &avg,
		Min:     &min,
		Max:     &max,
		Count:   len(ratings),
	}
}
