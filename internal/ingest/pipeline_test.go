package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/confmesh/paperkg/pkg/models"
)

type fakeWriter struct {
	papers      []*models.Paper
	authorships []string
	keywords    []string
	reviews     []*models.Review
	replies     [][2]string
	failPaperID string
	replyErr    error
}

func (f *fakeWriter) UpsertPaper(_ context.Context, p *models.Paper) error {
	if p.ID == f.failPaperID {
		return errors.New("write failed")
	}
	f.papers = append(f.papers, p)
	return nil
}

func (f *fakeWriter) UpsertAuthorship(_ context.Context, authorID, name, paperID string, order int) error {
	f.authorships = append(f.authorships, authorID)
	return nil
}

func (f *fakeWriter) UpsertKeyword(_ context.Context, paperID, keyword string) error {
	f.keywords = append(f.keywords, keyword)
	return nil
}

func (f *fakeWriter) UpsertReview(_ context.Context, paperID string, r *models.Review, contentJSON string) error {
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeWriter) LinkReply(_ context.Context, reviewID, replyToID string) error {
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, [2]string{reviewID, replyToID})
	return nil
}

type PipelineSuite struct {
	suite.Suite
	writer *fakeWriter
	pipe   *Pipeline
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.writer = &fakeWriter{}
	s.pipe = NewPipeline(s.writer, zerolog.Nop())
}

func (s *PipelineSuite) writeDump(lines ...string) string {
	path := filepath.Join(s.T().TempDir(), "dump.jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

// =====================================================
// Full file ingestion
// =====================================================

func (s *PipelineSuite) TestIngestFileWritesPaperGraph() {
	record := `{"id": "paper-1", "title": "Graph Attention at Scale", "abstract": "We study attention.", ` +
		`"status": "poster", "keywords": ["graph neural networks", "attention"], ` +
		`"authors": ["Anna Graphova", "Bo Chen"], "authorids": ["~Anna_Graphova1", "~Bo_Chen2"], ` +
		`"TLDR": "Attention scales.", "review_details": [` +
		`{"id": "rev-1", "replyto": "paper-1", "number": 1, ` +
		`"invitations": ["ICLR.cc/2025/Conference/-/Official_Review"], ` +
		`"content": {"rating": {"value": "8: Strong Accept"}, "summary": {"value": "Good."}}}, ` +
		`{"id": "reb-1", "replyto": "rev-1", ` +
		`"invitations": ["ICLR.cc/2025/Conference/-/Rebuttal"], ` +
		`"content": {"comment": {"value": "Thanks!"}}}]}`
	path := s.writeDump(record)

	stats, err := s.pipe.IngestFile(context.Background(), path, "ICLR")

	s.Require().NoError(err)
	s.Equal(1, stats.Papers)
	s.Equal(2, stats.Authors)
	s.Equal(2, stats.Keywords)
	s.Equal(2, stats.Reviews)
	s.Equal(0, stats.Skipped)

	s.Require().Len(s.writer.papers, 1)
	s.Equal("ICLR", s.writer.papers[0].Conference)
	s.Equal("Attention scales.", s.writer.papers[0].TLDR)

	s.Require().Len(s.writer.reviews, 2)
	s.Equal("official_review", s.writer.reviews[0].ReviewType)
	s.Require().NotNil(s.writer.reviews[0].Rating)
	s.Equal(8.0, *s.writer.reviews[0].Rating)
	s.Equal("rebuttal", s.writer.reviews[1].ReviewType)
	s.Nil(s.writer.reviews[1].Rating)

	// rev-1 replies to the paper itself, so only the rebuttal gets an edge.
	s.Equal([][2]string{{"reb-1", "rev-1"}}, s.writer.replies)
}

func (s *PipelineSuite) TestMalformedLineSkippedNotFatal() {
	path := s.writeDump(
		`{"id": "paper-1", "title": "A"}`,
		`{not json`,
		`{"id": "paper-2", "title": "B"}`,
	)

	stats, err := s.pipe.IngestFile(context.Background(), path, "ICML")

	s.Require().NoError(err)
	s.Equal(2, stats.Papers)
	s.Equal(1, stats.Skipped)
}

func (s *PipelineSuite) TestWriteFailureSkipsPaperAndContinues() {
	s.writer.failPaperID = "paper-1"
	path := s.writeDump(
		`{"id": "paper-1", "title": "A"}`,
		`{"id": "paper-2", "title": "B"}`,
	)

	stats, err := s.pipe.IngestFile(context.Background(), path, "NeurIPS")

	s.Require().NoError(err)
	s.Equal(1, stats.Papers)
	s.Equal(1, stats.Skipped)
	s.Require().Len(s.writer.papers, 1)
	s.Equal("paper-2", s.writer.papers[0].ID)
}

func (s *PipelineSuite) TestRecordWithoutIDRejected() {
	path := s.writeDump(`{"title": "Anonymous"}`)

	stats, err := s.pipe.IngestFile(context.Background(), path, "ICLR")

	s.Require().NoError(err)
	s.Equal(0, stats.Papers)
	s.Equal(1, stats.Skipped)
}

func (s *PipelineSuite) TestReplyLinkFailureIsBestEffort() {
	s.writer.replyErr = errors.New("target missing")
	path := s.writeDump(`{"id": "paper-1", "review_details": [{"id": "rev-1", "replyto": "rev-0", "invitations": ["Official_Review"], "content": {}}]}`)

	stats, err := s.pipe.IngestFile(context.Background(), path, "ICLR")

	s.Require().NoError(err)
	s.Equal(1, stats.Papers)
	s.Equal(1, stats.Reviews)
	s.Equal(0, stats.Skipped)
}

func (s *PipelineSuite) TestAuthorsWithoutIDsTruncated() {
	path := s.writeDump(`{"id": "paper-1", "authors": ["A", "B", "C"], "authorids": ["~A1"]}`)

	stats, err := s.pipe.IngestFile(context.Background(), path, "ICLR")

	s.Require().NoError(err)
	s.Equal(1, stats.Authors)
	s.Equal([]string{"~A1"}, s.writer.authorships)
}

func (s *PipelineSuite) TestMissingFileErrors() {
	_, err := s.pipe.IngestFile(context.Background(), filepath.Join(s.T().TempDir(), "missing.jsonl"), "ICLR")
	s.Error(err)
}
