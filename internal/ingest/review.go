package ingest

import (
	"strconv"
	"strings"

	"github.com/confmesh/paperkg/pkg/models"
)

// ratingFields maps a conference to the content field carrying its
// official score. ICML reviews score on overall_recommendation (1-5);
// ICLR (1-10) and NeurIPS (1-6) both use rating.
var ratingFields = map[string]string{
	string(models.ConferenceICLR):    "rating",
	string(models.ConferenceICML):    "overall_recommendation",
	string(models.ConferenceNeurIPS): "rating",
}

// ratingFallbacks are tried in order when the conference field is absent.
var ratingFallbacks = []string{"rating", "overall_recommendation", "recommendation"}

// DetermineReviewType classifies a forum note from its invitation ids.
// The checks are ordered: decisions win outright, and a note whose
// invitations mention both official_review and rebuttal is a rebuttal.
func DetermineReviewType(invitations []string) string {
	inv := strings.ToLower(strings.Join(invitations, " "))
	switch {
	case strings.Contains(inv, "decision"):
		return string(models.ReviewTypeDecision)
	case strings.Contains(inv, "official_review") && !strings.Contains(inv, "rebuttal"):
		return string(models.ReviewTypeOfficial)
	case strings.Contains(inv, "rebuttal"):
		return string(models.ReviewTypeRebuttal)
	case strings.Contains(inv, "meta"):
		return string(models.ReviewTypeMetaReview)
	case strings.Contains(inv, "comment"):
		return string(models.ReviewTypeComment)
	default:
		return string(models.ReviewTypeOther)
	}
}

// ExtractRating pulls the official score out of review content using the
// conference's rating field, falling back to the common score fields.
// Returns nil when no field holds a usable number.
func ExtractRating(content models.ReviewContent, conference string) *float64 {
	field, ok := ratingFields[conference]
	if !ok {
		field = "rating"
	}
	if v, ok := numericField(content, field); ok {
		return &v
	}
	for _, fallback := range ratingFallbacks {
		if fallback == field {
			continue
		}
		if v, ok := numericField(content, fallback); ok {
			return &v
		}
	}
	return nil
}

// ExtractConfidence pulls the reviewer confidence score, when present.
func ExtractConfidence(content models.ReviewContent) *float64 {
	if v, ok := numericField(content, "confidence"); ok {
		return &v
	}
	return nil
}

// numericField reads a content field as a number. String values like
// "8: Strong Accept" contribute the number before the colon.
func numericField(content models.ReviewContent, name string) (float64, bool) {
	v, ok := content.Field(name)
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		head, _, _ := strings.Cut(val, ":")
		f, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
