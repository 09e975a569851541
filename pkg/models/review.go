package models

import (
	json "github.com/goccy/go-json"
)

// ReviewType classifies a forum note on a paper.
type ReviewType string

const (
	ReviewTypeOfficial   ReviewType = "official_review"
	ReviewTypeRebuttal   ReviewType = "rebuttal"
	ReviewTypeComment    ReviewType = "comment"
	ReviewTypeDecision   ReviewType = "decision"
	ReviewTypeMetaReview ReviewType = "meta_review"
	ReviewTypeOther      ReviewType = "other"
)

// Review is a single note in a paper's discussion thread. ReplyTo points
// at another review's id and forms a reply forest per paper; it may
// reference a review outside the loaded batch, which consumers must
// tolerate by treating the review as a root.
type Review struct {
	ID         string        `json:"id"`
	ReplyTo    string        `json:"replyto,omitempty"`
	CDate      int64         `json:"cdate,omitempty"`
	MDate      int64         `json:"mdate,omitempty"`
	Number     int           `json:"number,omitempty"`
	ReviewType string        `json:"review_type"`
	Rating     *float64      `json:"rating,omitempty"`
	Confidence *float64      `json:"confidence,omitempty"`
	Content    ReviewContent `json:"content,omitempty"`
}

// ReviewContent is the dynamic, conference-specific payload of a review.
// Field sets differ per venue and values are optionally wrapped in a
// {"value": ...} envelope, so content is a generic map rather than a
// fixed-field record.
type ReviewContent map[string]any

// ParseReviewContent decodes the content JSON stored on a Review node.
// Malformed payloads yield an empty content map, never an error; partial
// data must not fail the surrounding aggregation.
func ParseReviewContent(raw string) ReviewContent {
	if raw == "" {
		return ReviewContent{}
	}
	var c ReviewContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return ReviewContent{}
	}
	return c
}

// Field returns the value for a content field, unwrapping the optional
// {"value": ...} envelope.
func (c ReviewContent) Field(name string) (any, bool) {
	v, ok := c[name]
	if !ok {
		return nil, false
	}
	if wrapped, ok := v.(map[string]any); ok {
		if inner, ok := wrapped["value"]; ok {
			return inner, true
		}
	}
	return v, true
}

// Text returns a content field as a string, or "" when the field is
// missing or not textual.
func (c ReviewContent) Text(name string) string {
	v, ok := c.Field(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// FullText collects every textual value in the content map into one
// string for word counting. String list values contribute each element.
func (c ReviewContent) FullText() string {
	var parts []string
	for _, raw := range c {
		v := raw
		if wrapped, ok := raw.(map[string]any); ok {
			inner, ok := wrapped["value"]
			if !ok {
				continue
			}
			v = inner
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				parts = append(parts, val)
			}
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
