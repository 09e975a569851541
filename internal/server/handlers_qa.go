package server

import (
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/confmesh/paperkg/pkg/models"
)

const (
	// maxResultsToLLM caps how many query result rows feed the answer
	// prompt; a thousand-row aggregate would blow the context for no gain.
	maxResultsToLLM = 50

	// maxRawResults caps the rows echoed back to the caller.
	maxRawResults = 100
)

// handleAsk answers a natural language question: translate it into a
// graph query, run it, and synthesize an answer from the results.
// Translation and execution failures degrade to lower-confidence direct
// answers instead of erroring.
func (s *Service) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.QARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		badRequest(w, "question cannot be empty")
		return
	}

	translation, err := s.answerer.Translate(r.Context(), question)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if translation.Query == "" {
		answer, err := s.answerer.AnswerQuestion(r.Context(), question,
			"This is a database of AI conference papers (ICLR, ICML, NeurIPS 2025). "+translation.Explanation, nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.QAResponse{
			Answer:     answer,
			Sources:    []models.QASource{},
			Confidence: 0.3,
			QueryType:  "fallback",
		})
		return
	}

	rows, execErr := s.store.ExecuteQuery(r.Context(), translation.Query, translation.Parameters)
	if execErr != nil {
		log.Error().Err(execErr).Str("query", translation.Query).Msg("Generated query failed")
		answer, err := s.answerer.AnswerQuestion(r.Context(), question,
			fmt.Sprintf("The generated query failed: %v. Query was: %s", execErr, translation.Query), nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, models.QAResponse{
			Answer:      answer,
			CypherQuery: translation.Query,
			Sources:     []models.QASource{},
			Confidence:  0.2,
			QueryType:   "error",
		})
		return
	}

	results := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		results = append(results, map[string]any(row))
	}

	promptResults := results
	if len(promptResults) > maxResultsToLLM {
		promptResults = promptResults[:maxResultsToLLM]
	}
	answer, err := s.answerer.AnswerQuestion(r.Context(), question,
		"Query explanation: "+translation.Explanation, promptResults)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.QAResponse{
		Answer:      answer,
		CypherQuery: translation.Query,
		Sources:     []models.QASource{{Type: "cypher_query", Content: translation.Query}},
		Confidence:  0.5,
		QueryType:   classifyQuestion(question),
	}
	if len(results) > 0 {
		resp.Confidence = 0.8
	}
	if req.IncludeSources {
		if len(results) > maxRawResults {
			results = results[:maxRawResults]
		}
		resp.RawResults = results
	}
	writeJSON(w, http.StatusOK, resp)
}

// classifyQuestion buckets a question by intent for client analytics.
func classifyQuestion(question string) string {
	q := strings.ToLower(question)
	contains := func(words ...string) bool {
		for _, word := range words {
			if strings.Contains(q, word) {
				return true
			}
		}
		return false
	}
	switch {
	case contains("how many", "count"):
		return "stats"
	case contains("compare", "vs"):
		return "comparison"
	case contains("summary", "weakness", "strength"):
		return "summary"
	case contains("which", "what", "who"):
		return "search"
	default:
		return "unknown"
	}
}

type semanticSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// handleSemanticSearch serves pure vector similarity search without the
// keyword branch or fusion.
func (s *Service) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(w, "query cannot be empty")
		return
	}
	if req.Limit <= 0 || req.Limit > MaxSearchLimit {
		req.Limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.EmbedQuery(r.Context(), req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hits, err := s.store.SemanticCandidates(r.Context(), embedding, req.Limit, s.minScore)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type semanticResult struct {
		Paper *models.Paper `json:"paper"`
		Score float64       `json:"score"`
	}
	results := make([]semanticResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, semanticResult{Paper: hit.Paper, Score: hit.Score})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":    req.Query,
		"results":  results,
		"count":    len(results),
		"semantic": true,
	})
}

// handleExamples serves canned questions for the client's QA page.
func (s *Service) handleExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"examples": []map[string]any{
			{
				"category": "statistics",
				"questions": []string{
					"How many papers were accepted to ICLR 2025?",
					"What are the acceptance rates of the three conferences?",
					"Which keyword appears most often in accepted papers?",
					"Which ICLR papers have an average rating above 8?",
				},
			},
			{
				"category": "authors",
				"questions": []string{
					"Which author published the most papers?",
					"Which authors have papers at all three conferences?",
				},
			},
			{
				"category": "papers",
				"questions": []string{
					"Which papers are about transformers?",
					"Which research area has the highest acceptance rate?",
				},
			},
			{
				"category": "comparison",
				"questions": []string{
					"Which has the higher acceptance rate, ICML or NeurIPS?",
					"How do average ratings differ between spotlight and poster papers?",
				},
			},
		},
	})
}
