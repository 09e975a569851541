package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmesh/paperkg/pkg/models"
)

func TestDetermineReviewType(t *testing.T) {
	tests := []struct {
		name        string
		invitations []string
		want        string
	}{
		{"decision", []string{"ICLR.cc/2025/Conference/Submission1/-/Decision"}, "decision"},
		{"official review", []string{"ICLR.cc/2025/Conference/Submission1/-/Official_Review"}, "official_review"},
		{"rebuttal", []string{"ICLR.cc/2025/Conference/Submission1/-/Rebuttal"}, "rebuttal"},
		{"official review naming a rebuttal is a rebuttal", []string{"Official_Review", "Author_Rebuttal"}, "rebuttal"},
		{"meta review", []string{"NeurIPS.cc/2025/Conference/Submission1/-/Meta_Review"}, "meta_review"},
		{"public comment", []string{"ICML.cc/2025/Conference/Submission1/-/Public_Comment"}, "comment"},
		{"decision beats comment", []string{"Public_Comment", "Decision"}, "decision"},
		{"unknown invitation", []string{"Something/Else"}, "other"},
		{"no invitations", nil, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineReviewType(tt.invitations))
		})
	}
}

func wrapped(v any) map[string]any {
	return map[string]any{"value": v}
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		name       string
		content    models.ReviewContent
		conference string
		want       *float64
	}{
		{
			name:       "iclr numeric rating",
			content:    models.ReviewContent{"rating": wrapped(8.0)},
			conference: "ICLR",
			want:       ptr(8.0),
		},
		{
			name:       "icml reads overall_recommendation",
			content:    models.ReviewContent{"overall_recommendation": wrapped(4.0), "rating": wrapped(9.0)},
			conference: "ICML",
			want:       ptr(4.0),
		},
		{
			name:       "neurips numeric rating",
			content:    models.ReviewContent{"rating": wrapped(5.0)},
			conference: "NeurIPS",
			want:       ptr(5.0),
		},
		{
			name:       "string rating with label",
			content:    models.ReviewContent{"rating": wrapped("8: Strong Accept")},
			conference: "ICLR",
			want:       ptr(8.0),
		},
		{
			name:       "fallback to recommendation",
			content:    models.ReviewContent{"recommendation": wrapped("3: Weak Reject")},
			conference: "ICLR",
			want:       ptr(3.0),
		},
		{
			name:       "unknown conference defaults to rating field",
			content:    models.ReviewContent{"rating": wrapped(7.0)},
			conference: "KDD",
			want:       ptr(7.0),
		},
		{
			name:       "non-numeric string",
			content:    models.ReviewContent{"rating": wrapped("strong accept")},
			conference: "ICLR",
			want:       nil,
		},
		{
			name:       "no score fields",
			content:    models.ReviewContent{"summary": wrapped("nice paper")},
			conference: "ICLR",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRating(tt.content, tt.conference)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractConfidence(t *testing.T) {
	got := ExtractConfidence(models.ReviewContent{"confidence": wrapped("4: Confident")})
	require.NotNil(t, got)
	assert.Equal(t, 4.0, *got)

	assert.Nil(t, ExtractConfidence(models.ReviewContent{"rating": wrapped(8.0)}))
}

func ptr(v float64) *float64 { return &v }
