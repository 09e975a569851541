// Package models contains domain models for paperkg.
package models

// Conference identifies the venue a paper was submitted to.
type Conference string

const (
	ConferenceICLR    Conference = "ICLR"
	ConferenceICML    Conference = "ICML"
	ConferenceNeurIPS Conference = "NeurIPS"
)

// AllConferences lists every supported conference.
var AllConferences = []Conference{ConferenceICLR, ConferenceICML, ConferenceNeurIPS}

// PaperStatus represents the final decision status of a paper.
type PaperStatus string

const (
	StatusRejected     PaperStatus = "rejected"
	StatusPoster       PaperStatus = "poster"
	StatusSpotlight    PaperStatus = "spotlight"
	StatusOral         PaperStatus = "oral"
	StatusWithdrawn    PaperStatus = "withdrawn"
	StatusDeskRejected PaperStatus = "desk_rejected"
)

// AcceptedStatuses are the statuses that count as an acceptance.
var AcceptedStatuses = []PaperStatus{StatusPoster, StatusSpotlight, StatusOral}

// Paper is a submission node in the graph. Derived fields (ratings,
// word counts, battle intensity) are nil until the aggregation pipeline
// has run; they are recomputed from scratch on every run, never patched.
type Paper struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Abstract         string   `json:"abstract"`
	Status           string   `json:"status"`
	Conference       string   `json:"conference"`
	Keywords         []string `json:"keywords,omitempty"`
	Authors          []string `json:"authors,omitempty"`
	AuthorIDs        []string `json:"authorids,omitempty"`
	PrimaryArea      string   `json:"primary_area,omitempty"`
	TLDR             string   `json:"tldr,omitempty"`
	Venue            string   `json:"venue,omitempty"`
	CreationDate     string   `json:"creation_date,omitempty"`
	ModificationDate string   `json:"modification_date,omitempty"`
	ForumLink        string   `json:"forum_link,omitempty"`
	PDFLink          string   `json:"pdf_link,omitempty"`

	// Derived rating statistics (official reviews only).
	Ratings     []float64 `json:"ratings,omitempty"`
	AvgRating   *float64  `json:"avg_rating,omitempty"`
	MinRating   *float64  `json:"min_rating,omitempty"`
	MaxRating   *float64  `json:"max_rating,omitempty"`
	RatingCount int       `json:"rating_count"`

	// Derived interaction statistics.
	AuthorWordCount   *int     `json:"author_word_count,omitempty"`
	ReviewerWordCount *int     `json:"reviewer_word_count,omitempty"`
	InteractionRounds *int     `json:"interaction_rounds,omitempty"`
	BattleIntensity   *float64 `json:"battle_intensity,omitempty"`
}

// PaperDetail is a paper with its full review thread attached.
type PaperDetail struct {
	Paper
	ReviewCount int       `json:"review_count"`
	Reviews     []*Review `json:"reviews"`
}

// PaperList is one page of papers.
type PaperList struct {
	Papers   []*Paper `json:"papers"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}
