package graphdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/confmesh/paperkg/pkg/models"
)

// PaperFilter narrows a paper listing. Zero values mean "no filter".
type PaperFilter struct {
	Conference string
	Status     string
	Keyword    string
	SortBy     string
	Skip       int
	Limit      int
}

// sortClauses maps the exposed sort modes onto ORDER BY clauses. Only
// these fixed clauses are ever appended to query text.
var sortClauses = map[string]string{
	"date_desc":    "ORDER BY p.creation_date DESC",
	"date_asc":     "ORDER BY p.creation_date ASC",
	"rating_desc":  "ORDER BY p.avg_rating DESC",
	"rating_asc":   "ORDER BY p.avg_rating ASC",
	"reviews_desc": "ORDER BY p.rating_count DESC",
	"reviews_asc":  "ORDER BY p.rating_count ASC",
}

// ListPapers returns one page of papers plus the total count for the
// filter. Conference/status/keyword values are bound parameters; skip
// and limit are structural integers.
func (c *Client) ListPapers(ctx context.Context, filter PaperFilter) ([]*models.Paper, int, error) {
	match := "MATCH (p:Paper)"
	var conditions []string
	params := map[string]any{}

	if filter.Conference != "" {
		conditions = append(conditions, "p.conference = $conference")
		params["conference"] = filter.Conference
	}
	if filter.Status != "" {
		conditions = append(conditions, "p.status = $status")
		params["status"] = filter.Status
	}
	if filter.Keyword != "" {
		match = "MATCH (p:Paper)-[:HAS_KEYWORD]->(k:Keyword)"
		conditions = append(conditions, "k.name CONTAINS $keyword")
		params["keyword"] = strings.ToLower(filter.Keyword)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	orderBy, ok := sortClauses[filter.SortBy]
	if !ok {
		orderBy = sortClauses["date_desc"]
	}

	query := fmt.Sprintf(`%s
		%s
		WITH DISTINCT p
		OPTIONAL MATCH (p)<-[:AUTHORED]-(a:Author)
		WITH p, collect(a.name) AS authors
		RETURN p.id AS id, p.title AS title, p.abstract AS abstract,
		       p.status AS status, p.conference AS conference,
		       p.keywords AS keywords, authors,
		       p.forum_link AS forum_link, p.pdf_link AS pdf_link,
		       p.creation_date AS creation_date,
		       p.avg_rating AS avg_rating, p.rating_count AS rating_count,
		       p.battle_intensity AS battle_intensity
		%s
		SKIP %d LIMIT %d`, match, where, orderBy, filter.Skip, filter.Limit)

	rows, err := c.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, 0, err
	}

	papers := make([]*models.Paper, 0, len(rows))
	for _, row := range rows {
		papers = append(papers, paperFromRow(row))
	}

	countQuery := fmt.Sprintf("%s %s RETURN count(DISTINCT p) AS total", match, where)
	countRows, err := c.ExecuteQuery(ctx, countQuery, params)
	if err != nil {
		return nil, 0, err
	}
	total := 0
	if len(countRows) > 0 {
		total = countRows[0].Int("total")
	}

	return papers, total, nil
}

// GetPaper loads one paper with its ordered authors, keywords, and full
// review thread. Returns ErrNotFound when the id does not exist.
func (c *Client) GetPaper(ctx context.Context, paperID string) (*models.PaperDetail, error) {
	params := map[string]any{"paper_id": paperID}

	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper {id: $paper_id})
		RETURN p.id AS id, p.title AS title, p.abstract AS abstract,
		       p.status AS status, p.conference AS conference,
		       p.keywords AS keywords, p.primary_area AS primary_area,
		       p.tldr AS tldr, p.venue AS venue,
		       p.creation_date AS creation_date,
		       p.modification_date AS modification_date,
		       p.forum_link AS forum_link, p.pdf_link AS pdf_link,
		       p.ratings AS ratings, p.avg_rating AS avg_rating,
		       p.min_rating AS min_rating, p.max_rating AS max_rating,
		       p.rating_count AS rating_count,
		       p.author_word_count AS author_word_count,
		       p.reviewer_word_count AS reviewer_word_count,
		       p.interaction_rounds AS interaction_rounds,
		       p.battle_intensity AS battle_intensity`, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	detail := &models.PaperDetail{Paper: *paperFromRow(rows[0])}
	row := rows[0]
	detail.ModificationDate = row.String("modification_date")
	detail.PrimaryArea = row.String("primary_area")
	detail.TLDR = row.String("tldr")
	detail.Venue = row.String("venue")
	detail.Ratings = row.Floats("ratings")
	detail.MinRating = row.FloatPtr("min_rating")
	detail.MaxRating = row.FloatPtr("max_rating")
	detail.AuthorWordCount = row.IntPtr("author_word_count")
	detail.ReviewerWordCount = row.IntPtr("reviewer_word_count")
	detail.InteractionRounds = row.IntPtr("interaction_rounds")

	authorRows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper {id: $paper_id})<-[au:AUTHORED]-(a:Author)
		RETURN a.name AS name, a.authorid AS authorid
		ORDER BY au.order ASC`, params)
	if err != nil {
		return nil, err
	}
	for _, row := range authorRows {
		detail.Authors = append(detail.Authors, row.String("name"))
		detail.AuthorIDs = append(detail.AuthorIDs, row.String("authorid"))
	}

	reviews, err := c.paperReviews(ctx, paperID)
	if err != nil {
		return nil, err
	}
	detail.Reviews = reviews
	detail.ReviewCount = len(reviews)

	return detail, nil
}

// paperReviews loads the full review batch for one paper.
func (c *Client) paperReviews(ctx context.Context, paperID string) ([]*models.Review, error) {
	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper {id: $paper_id})-[:HAS_REVIEW]->(r:Review)
		RETURN r.id AS id, r.replyto AS replyto, r.cdate AS cdate,
		       r.number AS number, r.review_type AS review_type,
		       r.rating AS rating, r.confidence AS confidence,
		       r.content_json AS content_json
		ORDER BY r.cdate ASC`, map[string]any{"paper_id": paperID})
	if err != nil {
		return nil, err
	}
	reviews := make([]*models.Review, 0, len(rows))
	for _, row := range rows {
		reviews = append(reviews, reviewFromRow(row))
	}
	return reviews, nil
}

// Statistics holds the overall graph counts.
type Statistics struct {
	TotalPapers   int `json:"total_papers"`
	TotalAuthors  int `json:"total_authors"`
	TotalReviews  int `json:"total_reviews"`
	TotalKeywords int `json:"total_keywords"`
}

// GetStatistics counts every node type.
func (c *Client) GetStatistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper)
		WITH count(p) AS total_papers
		MATCH (a:Author)
		WITH total_papers, count(a) AS total_authors
		MATCH (r:Review)
		WITH total_papers, total_authors, count(r) AS total_reviews
		MATCH (k:Keyword)
		RETURN total_papers, total_authors, total_reviews, count(k) AS total_keywords`, nil)
	if err != nil {
		return stats, err
	}
	if len(rows) == 0 {
		return stats, nil
	}
	row := rows[0]
	stats.TotalPapers = row.Int("total_papers")
	stats.TotalAuthors = row.Int("total_authors")
	stats.TotalReviews = row.Int("total_reviews")
	stats.TotalKeywords = row.Int("total_keywords")
	return stats, nil
}

// ConferenceStatusCount is one (conference, status) bucket.
type ConferenceStatusCount struct {
	Conference string
	Status     string
	Count      int
}

// ConferenceStats returns paper counts per conference and status.
func (c *Client) ConferenceStats(ctx context.Context) ([]ConferenceStatusCount, error) {
	rows, err := c.ExecuteQuery(ctx, `
		MATCH (p:Paper)
		WITH p.conference AS conference, p.status AS status, count(*) AS count
		RETURN conference, status, count
		ORDER BY conference, status`, nil)
	if err != nil {
		return nil, err
	}
	out := make([]ConferenceStatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, ConferenceStatusCount{
			Conference: row.String("conference"),
			Status:     row.String("status"),
			Count:      row.Int("count"),
		})
	}
	return out, nil
}

// paperFromRow maps the shared listing projection onto a Paper.
func paperFromRow(row Row) *models.Paper {
	return &models.Paper{
		ID:              row.String("id"),
		Title:           row.String("title"),
		Abstract:        row.String("abstract"),
		Status:          row.String("status"),
		Conference:      row.String("conference"),
		Keywords:        row.Strings("keywords"),
		Authors:         row.Strings("authors"),
		ForumLink:       row.String("forum_link"),
		PDFLink:         row.String("pdf_link"),
		CreationDate:    row.String("creation_date"),
		AvgRating:       row.FloatPtr("avg_rating"),
		RatingCount:     row.Int("rating_count"),
		BattleIntensity: row.FloatPtr("battle_intensity"),
	}
}

// reviewFromRow maps a review projection, parsing the dynamic content
// payload; malformed content degrades to an empty map.
func reviewFromRow(row Row) *models.Review {
	r := &models.Review{
		ID:         row.String("id"),
		ReplyTo:    row.String("replyto"),
		ReviewType: row.String("review_type"),
		Rating:     row.FloatPtr("rating"),
		Confidence: row.FloatPtr("confidence"),
		Number:     row.Int("number"),
		Content:    models.ParseReviewContent(row.String("content_json")),
	}
	if v, ok := row.Float("cdate"); ok {
		r.CDate = int64(v)
	}
	return r
}
