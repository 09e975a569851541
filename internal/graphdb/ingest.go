package graphdb

import (
	"context"
	"strings"

	"github.com/confmesh/paperkg/pkg/models"
)

// UpsertPaper creates or refreshes a paper node. MERGE on the id keeps
// re-ingestion idempotent; derived fields are never touched here.
func (c *Client) UpsertPaper(ctx context.Context, p *models.Paper) error {
	return c.ExecuteWrite(ctx, `
		MERGE (p:Paper {id: $id})
		SET p.title = $title,
		    p.abstract = $abstract,
		    p.status = $status,
		    p.conference = $conference,
		    p.keywords = $keywords,
		    p.primary_area = $primary_area,
		    p.tldr = $tldr,
		    p.venue = $venue,
		    p.creation_date = $creation_date,
		    p.modification_date = $modification_date,
		    p.forum_link = $forum_link,
		    p.pdf_link = $pdf_link`,
		map[string]any{
			"id":                p.ID,
			"title":             p.Title,
			"abstract":          p.Abstract,
			"status":            p.Status,
			"conference":        p.Conference,
			"keywords":          lowerKeywords(p.Keywords),
			"primary_area":      p.PrimaryArea,
			"tldr":              p.TLDR,
			"venue":             p.Venue,
			"creation_date":     p.CreationDate,
			"modification_date": p.ModificationDate,
			"forum_link":        p.ForumLink,
			"pdf_link":          p.PDFLink,
		})
}

// UpsertAuthorship creates the author node and its AUTHORED edge with
// the zero-based authorship position.
func (c *Client) UpsertAuthorship(ctx context.Context, authorID, name, paperID string, order int) error {
	return c.ExecuteWrite(ctx, `
		MERGE (a:Author {authorid: $authorid})
		SET a.name = $name
		WITH a
		MATCH (p:Paper {id: $paper_id})
		MERGE (a)-[r:AUTHORED]->(p)
		SET r.order = $order`,
		map[string]any{
			"authorid": authorID,
			"name":     name,
			"paper_id": paperID,
			"order":    order,
		})
}

// UpsertKeyword attaches a normalized keyword to a paper. Keyword
// identity is the lower-cased, trimmed name.
func (c *Client) UpsertKeyword(ctx context.Context, paperID, keyword string) error {
	name := strings.ToLower(strings.TrimSpace(keyword))
	if name == "" {
		return nil
	}
	return c.ExecuteWrite(ctx, `
		MERGE (k:Keyword {name: $name})
		WITH k
		MATCH (p:Paper {id: $paper_id})
		MERGE (p)-[:HAS_KEYWORD]->(k)`,
		map[string]any{"name": name, "paper_id": paperID})
}

// UpsertReview creates a review node with its dynamic content stored as
// a JSON string, and links it to the paper.
func (c *Client) UpsertReview(ctx context.Context, paperID string, r *models.Review, contentJSON string) error {
	params := map[string]any{
		"id":           r.ID,
		"replyto":      r.ReplyTo,
		"number":       r.Number,
		"cdate":        r.CDate,
		"mdate":        r.MDate,
		"review_type":  r.ReviewType,
		"content_json": contentJSON,
		"paper_id":     paperID,
	}

	ratingSet := "r.rating = null"
	if r.Rating != nil {
		ratingSet = "r.rating = $rating"
		params["rating"] = *r.Rating
	}
	if r.Confidence != nil {
		ratingSet += ", r.confidence = $confidence"
		params["confidence"] = *r.Confidence
	} else {
		ratingSet += ", r.confidence = null"
	}

	if err := c.ExecuteWrite(ctx, `
		MERGE (r:Review {id: $id})
		SET r.replyto = $replyto,
		    r.number = $number,
		    r.cdate = $cdate,
		    r.mdate = $mdate,
		    r.review_type = $review_type,
		    `+ratingSet+`,
		    r.content_json = $content_json`, params); err != nil {
		return err
	}

	return c.ExecuteWrite(ctx, `
		MATCH (p:Paper {id: $paper_id})
		MATCH (r:Review {id: $id})
		MERGE (p)-[:HAS_REVIEW]->(r)`,
		map[string]any{"paper_id": paperID, "id": r.ID})
}

// LinkReply connects a review to its reply target. The target may not
// be ingested yet; a zero-match MERGE path is simply skipped, matching
// the best-effort semantics of reply edges.
func (c *Client) LinkReply(ctx context.Context, reviewID, replyToID string) error {
	return c.ExecuteWrite(ctx, `
		MATCH (r:Review {id: $review_id})
		MATCH (target:Review {id: $replyto})
		MERGE (r)-[:REPLIES_TO]->(target)`,
		map[string]any{"review_id": reviewID, "replyto": replyToID})
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
