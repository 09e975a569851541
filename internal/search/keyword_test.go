package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/confmesh/paperkg/pkg/models"
)

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		paper *models.Paper
		want  int
	}{
		{
			name:  "full query in title also matches a term",
			query: "deep learning",
			paper: &models.Paper{Title: "Deep Learning for Molecules"},
			want:  ScoreTitleExact + ScoreTitleTerm,
		},
		{
			name:  "single term in title",
			query: "graph transformers",
			paper: &models.Paper{Title: "Scaling Graph Networks"},
			want:  ScoreTitleTerm,
		},
		{
			name:  "author name contains query",
			query: "hinton",
			paper: &models.Paper{Title: "Unrelated", Authors: []string{"Geoffrey Hinton"}},
			want:  ScoreAuthor,
		},
		{
			name:  "keyword contains query",
			query: "diffusion",
			paper: &models.Paper{Title: "Unrelated", Keywords: []string{"diffusion models"}},
			want:  ScoreKeyword,
		},
		{
			name:  "abstract only scores exactly twenty",
			query: "contrastive",
			paper: &models.Paper{Title: "Unrelated", Abstract: "We use a contrastive objective."},
			want:  ScoreAbstract,
		},
		{
			name:  "bonuses accumulate",
			query: "attention",
			paper: &models.Paper{
				Title:    "Attention Is All You Need",
				Abstract: "attention everywhere",
				Keywords: []string{"attention"},
			},
			want: ScoreTitleExact + ScoreTitleTerm + ScoreKeyword + ScoreAbstract,
		},
		{
			name:  "no match scores zero",
			query: "quantum",
			paper: &models.Paper{Title: "Vision Transformers", Abstract: "images"},
			want:  0,
		},
		{
			name:  "blank query scores zero",
			query: "   ",
			paper: &models.Paper{Title: "Anything"},
			want:  0,
		},
		{
			name:  "matching is case-insensitive",
			query: "BERT",
			paper: &models.Paper{Title: "bert revisited"},
			want:  ScoreTitleExact + ScoreTitleTerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeywordScore(tt.query, tt.paper))
		})
	}
}

func TestRankKeywordHits_ExcludesAndOrders(t *testing.T) {
	papers := []*models.Paper{
		{ID: "p-none", Title: "Nothing Relevant"},
		{ID: "p-abstract", Title: "Other", Abstract: "mentions robotics once"},
		{ID: "p-title", Title: "Robotics at Scale"},
	}

	hits := rankKeywordHits("robotics", papers, 10)

	assert.Len(t, hits, 2)
	assert.Equal(t, "p-title", hits[0].Paper.ID)
	assert.Equal(t, "p-abstract", hits[1].Paper.ID)
	assert.Equal(t, ScoreAbstract, hits[1].Score)
}

func TestRankKeywordHits_StableTiebreakByID(t *testing.T) {
	papers := []*models.Paper{
		{ID: "zzz", Abstract: "shared topic"},
		{ID: "aaa", Abstract: "shared topic"},
	}

	hits := rankKeywordHits("topic", papers, 10)

	assert.Len(t, hits, 2)
	assert.Equal(t, "aaa", hits[0].Paper.ID, "equal scores break ties by paper id")
	assert.Equal(t, "zzz", hits[1].Paper.ID)
}

func TestRankKeywordHits_RespectsLimit(t *testing.T) {
	papers := []*models.Paper{
		{ID: "a", Abstract: "topic"},
		{ID: "b", Abstract: "topic"},
		{ID: "c", Abstract: "topic"},
	}

	hits := rankKeywordHits("topic", papers, 2)
	assert.Len(t, hits, 2)
}
