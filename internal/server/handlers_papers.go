package server

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confmesh/paperkg/internal/graphdb"
	"github.com/confmesh/paperkg/internal/search"
	"github.com/confmesh/paperkg/pkg/models"
)

// handleListPapers serves the paginated paper listing with optional
// conference/status/keyword filters and sort modes.
func (s *Service) handleListPapers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := queryInt(r, "page", 1, 1, 1<<30)
	pageSize := queryInt(r, "page_size", DefaultPageSize, 1, MaxPageSize)

	papers, total, err := s.store.ListPapers(r.Context(), graphdb.PaperFilter{
		Conference: q.Get("conference"),
		Status:     q.Get("status"),
		Keyword:    q.Get("keyword"),
		SortBy:     q.Get("sort_by"),
		Skip:       (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.PaperList{
		Papers:   papers,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// handleSearchPapers serves keyword, semantic, and hybrid search.
func (s *Service) handleSearchPapers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		badRequest(w, "query parameter q is required")
		return
	}
	mode := search.Mode(r.URL.Query().Get("mode"))
	limit := queryInt(r, "limit", DefaultSearchLimit, 1, MaxSearchLimit)

	results, err := s.searcher.Search(r.Context(), query, mode, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if results == nil {
		results = []*search.Result{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"mode":    mode,
		"results": results,
		"count":   len(results),
	})
}

// conferenceSummary is one conference's acceptance breakdown.
type conferenceSummary struct {
	Total          int     `json:"total"`
	Accepted       int     `json:"accepted"`
	Rejected       int     `json:"rejected"`
	AcceptanceRate float64 `json:"acceptance_rate"`
}

// handleStatistics serves overall counts plus per-conference acceptance
// rates.
func (s *Service) handleStatistics(w http.ResponseWriter, r *http.Request) {
	overall, err := s.store.GetStatistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	buckets, err := s.store.ConferenceStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	accepted := make(map[models.PaperStatus]bool, len(models.AcceptedStatuses))
	for _, st := range models.AcceptedStatuses {
		accepted[st] = true
	}

	byConference := make(map[string]*conferenceSummary)
	for _, b := range buckets {
		summary, ok := byConference[b.Conference]
		if !ok {
			summary = &conferenceSummary{}
			byConference[b.Conference] = summary
		}
		summary.Total += b.Count
		if accepted[models.PaperStatus(b.Status)] {
			summary.Accepted += b.Count
		} else if b.Status == string(models.StatusRejected) {
			summary.Rejected += b.Count
		}
	}
	for _, summary := range byConference {
		if summary.Total > 0 {
			rate := float64(summary.Accepted) / float64(summary.Total) * 100
			summary.AcceptanceRate = math.Round(rate*100) / 100
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overall":       overall,
		"by_conference": byConference,
	})
}

// handleGetPaper serves one paper with its full review thread.
func (s *Service) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	detail, err := s.store.GetPaper(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleReviewSummary serves the LLM digest of a paper's official
// reviews. Papers without official reviews have nothing to summarize.
func (s *Service) handleReviewSummary(w http.ResponseWriter, r *http.Request) {
	paperID := chi.URLParam(r, "paperID")
	detail, err := s.store.GetPaper(r.Context(), paperID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var official []*models.Review
	for _, review := range detail.Reviews {
		if review.ReviewType == string(models.ReviewTypeOfficial) {
			official = append(official, review)
		}
	}
	if len(official) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no reviews found for this paper"})
		return
	}

	summary := s.answerer.SummarizeReviews(r.Context(), detail.Title, official)
	summary.PaperID = paperID
	writeJSON(w, http.StatusOK, summary)
}
