package models

// QARequest is a natural-language question over the paper graph.
type QARequest struct {
	Question       string `json:"question"`
	IncludeSources bool   `json:"include_sources"`
}

// QAResponse carries the synthesized answer plus the generated query for
// explainability. CypherQuery is empty when translation failed and the
// answer came from the direct fallback path.
type QAResponse struct {
	Answer      string           `json:"answer"`
	CypherQuery string           `json:"cypher_query,omitempty"`
	RawResults  []map[string]any `json:"raw_results,omitempty"`
	Sources     []QASource       `json:"sources"`
	Confidence  float64          `json:"confidence"`
	QueryType   string           `json:"query_type"`
}

// QASource describes where part of an answer came from.
type QASource struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ReviewSummary is the LLM-generated digest of a paper's official reviews.
type ReviewSummary struct {
	PaperID          string   `json:"paper_id"`
	OverallSentiment string   `json:"overall_sentiment"`
	MainStrengths    []string `json:"main_strengths"`
	MainWeaknesses   []string `json:"main_weaknesses"`
	KeyQuestions     []string `json:"key_questions"`
	Recommendation   string   `json:"recommendation,omitempty"`
	SummaryText      string   `json:"summary_text"`
}
