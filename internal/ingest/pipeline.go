// Package ingest loads conference paper dumps (JSONL, one paper per
// line with embedded review threads) into the graph.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/confmesh/paperkg/pkg/models"
)

const (
	// maxLineBytes bounds a single JSONL record. Papers with long review
	// threads routinely exceed bufio's default 64KB token limit.
	maxLineBytes = 16 * 1024 * 1024

	logEvery = 100
)

// rawPaper mirrors one JSONL record from the conference dumps.
type rawPaper struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Abstract         string      `json:"abstract"`
	Status           string      `json:"status"`
	Keywords         []string    `json:"keywords"`
	Authors          []string    `json:"authors"`
	AuthorIDs        []string    `json:"authorids"`
	PrimaryArea      string      `json:"primary_area"`
	TLDR             string      `json:"TLDR"`
	Venue            string      `json:"venue"`
	CreationDate     string      `json:"creation_date"`
	ModificationDate string      `json:"modification_date"`
	ForumLink        string      `json:"forum_link"`
	PDFLink          string      `json:"pdf_link"`
	ReviewDetails    []rawReview `json:"review_details"`
}

type rawReview struct {
	ID          string               `json:"id"`
	ReplyTo     string               `json:"replyto"`
	Number      int                  `json:"number"`
	CDate       int64                `json:"cdate"`
	MDate       int64                `json:"mdate"`
	Invitations []string             `json:"invitations"`
	Content     models.ReviewContent `json:"content"`
}

// GraphWriter is the storage surface the pipeline writes through.
type GraphWriter interface {
	UpsertPaper(ctx context.Context, p *models.Paper) error
	UpsertAuthorship(ctx context.Context, authorID, name, paperID string, order int) error
	UpsertKeyword(ctx context.Context, paperID, keyword string) error
	UpsertReview(ctx context.Context, paperID string, r *models.Review, contentJSON string) error
	LinkReply(ctx context.Context, reviewID, replyToID string) error
}

// Stats counts what one ingestion run wrote.
type Stats struct {
	Papers    int
	Authors   int
	Keywords  int
	Reviews   int
	Skipped   int
	LineCount int
}

// Pipeline streams JSONL paper dumps into the graph. Every write is an
// idempotent MERGE, so re-running a file repairs rather than duplicates.
type Pipeline struct {
	log   zerolog.Logger
	store GraphWriter
}

// NewPipeline builds an ingestion pipeline over the given store.
func NewPipeline(store GraphWriter, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		store: store,
		log:   log.With().Str("component", "ingest").Logger(),
	}
}

// IngestFile loads every record of a JSONL dump, tagging each paper with
// the given conference. Malformed lines are logged and skipped; a single
// bad record must not abort a multi-hour import.
func (p *Pipeline) IngestFile(ctx context.Context, path, conference string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open dump %s: %w", path, err)
	}
	defer f.Close()

	p.log.Info().Str("path", path).Str("conference", conference).Msg("Ingesting paper dump")

	var stats Stats
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.LineCount++

		var raw rawPaper
		if err := json.Unmarshal(line, &raw); err != nil {
			stats.Skipped++
			p.log.Error().Err(err).Int("line", stats.LineCount).Msg("Skipping malformed record")
			continue
		}

		if err := p.IngestPaper(ctx, &raw, conference, &stats); err != nil {
			stats.Skipped++
			p.log.Error().Err(err).Str("paper_id", raw.ID).Msg("Skipping paper after write failure")
			continue
		}

		if stats.Papers%logEvery == 0 {
			p.log.Info().Int("papers", stats.Papers).Msg("Ingestion progress")
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read dump %s: %w", path, err)
	}

	p.log.Info().
		Int("papers", stats.Papers).
		Int("authors", stats.Authors).
		Int("keywords", stats.Keywords).
		Int("reviews", stats.Reviews).
		Int("skipped", stats.Skipped).
		Msg("Ingestion complete")
	return stats, nil
}

// IngestPaper writes one paper with its authorships, keywords, and
// review thread.
func (p *Pipeline) IngestPaper(ctx context.Context, raw *rawPaper, conference string, stats *Stats) error {
	if raw.ID == "" {
		return fmt.Errorf("paper record has no id")
	}

	paper := &models.Paper{
		ID:               raw.ID,
		Title:            raw.Title,
		Abstract:         raw.Abstract,
		Status:           raw.Status,
		Conference:       conference,
		Keywords:         raw.Keywords,
		PrimaryArea:      raw.PrimaryArea,
		TLDR:             raw.TLDR,
		Venue:            raw.Venue,
		CreationDate:     raw.CreationDate,
		ModificationDate: raw.ModificationDate,
		ForumLink:        raw.ForumLink,
		PDFLink:          raw.PDFLink,
	}
	if err := p.store.UpsertPaper(ctx, paper); err != nil {
		return fmt.Errorf("upsert paper %s: %w", raw.ID, err)
	}
	stats.Papers++

	for i, name := range raw.Authors {
		if i >= len(raw.AuthorIDs) {
			break
		}
		if err := p.store.UpsertAuthorship(ctx, raw.AuthorIDs[i], name, raw.ID, i); err != nil {
			return fmt.Errorf("upsert authorship %s on %s: %w", raw.AuthorIDs[i], raw.ID, err)
		}
		stats.Authors++
	}

	for _, kw := range raw.Keywords {
		if err := p.store.UpsertKeyword(ctx, raw.ID, kw); err != nil {
			return fmt.Errorf("upsert keyword on %s: %w", raw.ID, err)
		}
		stats.Keywords++
	}

	for i := range raw.ReviewDetails {
		if err := p.ingestReview(ctx, raw.ID, conference, &raw.ReviewDetails[i]); err != nil {
			return err
		}
		stats.Reviews++
	}
	return nil
}

func (p *Pipeline) ingestReview(ctx context.Context, paperID, conference string, raw *rawReview) error {
	if raw.ID == "" {
		return nil
	}

	contentJSON, err := json.Marshal(raw.Content)
	if err != nil {
		return fmt.Errorf("encode review content %s: %w", raw.ID, err)
	}

	review := &models.Review{
		ID:         raw.ID,
		ReplyTo:    raw.ReplyTo,
		Number:     raw.Number,
		CDate:      raw.CDate,
		MDate:      raw.MDate,
		ReviewType: DetermineReviewType(raw.Invitations),
		Rating:     ExtractRating(raw.Content, conference),
		Confidence: ExtractConfidence(raw.Content),
		Content:    raw.Content,
	}
	if err := p.store.UpsertReview(ctx, paperID, review, string(contentJSON)); err != nil {
		return fmt.Errorf("upsert review %s: %w", raw.ID, err)
	}

	// Reply edges are best-effort: the target may live later in the file
	// or outside it entirely.
	if raw.ReplyTo != "" && raw.ReplyTo != paperID {
		if err := p.store.LinkReply(ctx, raw.ID, raw.ReplyTo); err != nil {
			p.log.Debug().Err(err).Str("review_id", raw.ID).Msg("Reply target not linked")
		}
	}
	return nil
}
