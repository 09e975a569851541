package llm

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/confmesh/paperkg/pkg/models"
)

// GraphSchema describes the stored graph for the translation prompt.
const GraphSchema = `
Nodes:
- Paper: id, title, abstract, status (rejected/poster/spotlight/oral/withdrawn/desk_rejected), conference (ICLR/ICML/NeurIPS), keywords, avg_rating, rating_count, battle_intensity, creation_date, forum_link, pdf_link
- Author: authorid, name
- Review: id, review_type (official_review/rebuttal/decision/meta_review/comment/other), rating, confidence, cdate
- Keyword: name

Relationships:
- (Author)-[:AUTHORED]->(Paper) with property: order
- (Paper)-[:HAS_REVIEW]->(Review)
- (Paper)-[:HAS_KEYWORD]->(Keyword)
- (Review)-[:REPLIES_TO]->(Review)

Notes:
- Accepted papers have status IN ['poster', 'spotlight', 'oral']
- ICLR ratings: 1-10, ICML ratings: 1-5, NeurIPS ratings: 1-6
- Use avg() for average ratings
- Keywords are lowercase
`

const translateSystemPrompt = `You are an expert at converting natural language questions into graph Cypher queries.

Here is the graph schema:
%s

Rules:
1. Always return valid Cypher syntax
2. Use parameter placeholders ($param) when appropriate
3. Include LIMIT clauses for queries that could return many results
4. For rating queries, note: ICLR max=10, ICML max=5, NeurIPS max=6
5. Return JSON format with keys: "cypher", "parameters", "explanation"

Example questions and queries:
Q: "How many papers were accepted to ICLR 2025?"
A: {"cypher": "MATCH (p:Paper) WHERE p.conference = 'ICLR' AND p.status IN ['poster', 'spotlight', 'oral'] RETURN count(p) as accepted_count", "parameters": {}, "explanation": "Counting papers with accepted status"}

Q: "Which keywords are most common in ICML accepted papers?"
A: {"cypher": "MATCH (p:Paper)-[:HAS_KEYWORD]->(k:Keyword) WHERE p.conference = 'ICML' AND p.status IN ['poster', 'spotlight', 'oral'] RETURN k.name as keyword, count(*) as count ORDER BY count DESC LIMIT 20", "parameters": {}, "explanation": "Aggregating keywords for accepted ICML papers"}`

const answerSystemPrompt = `You are a helpful assistant for an academic paper database.
Answer questions based on the provided context and query results.
Be concise and accurate. If you don't have enough information, say so.
Format your response in Markdown for readability.`

const summarySystemPrompt = `You are an expert at analyzing academic paper reviews.
Summarize the reviews concisely, highlighting:
1. Main strengths mentioned
2. Main weaknesses/concerns
3. Key questions raised
4. Overall sentiment (positive/negative/mixed)

Return JSON format with keys: "overall_sentiment", "main_strengths" (list), "main_weaknesses" (list), "key_questions" (list), "summary_text" (string)`

// Translation is the outcome of one natural-language-to-query attempt.
// Query is empty when the model produced no usable query; Raw keeps the
// model's unparsed reply for diagnostics.
type Translation struct {
	Query       string
	Parameters  map[string]any
	Explanation string
	Raw         string
}

// Translator turns questions into graph queries and synthesizes answers
// from their results.
type Translator struct {
	chat Chat
	log  zerolog.Logger
}

// NewTranslator builds a Translator on the given chat collaborator.
func NewTranslator(chat Chat, log zerolog.Logger) *Translator {
	return &Translator{
		chat: chat,
		log:  log.With().Str("component", "llm").Logger(),
	}
}

type rawTranslation struct {
	Cypher      string         `json:"cypher"`
	Parameters  map[string]any `json:"parameters"`
	Explanation string         `json:"explanation"`
}

// Translate converts a question into a parameterized graph query.
// Model output that cannot be parsed is not an error: the caller gets
// an empty query with a failure explanation and the raw reply, and
// decides how to degrade.
func (t *Translator) Translate(ctx context.Context, question string) (Translation, error) {
	reply, err := t.chat.Complete(ctx, []Message{
		{Role: "system", Content: fmt.Sprintf(translateSystemPrompt, GraphSchema)},
		{Role: "user", Content: "Convert this question to Cypher: " + question},
	})
	if err != nil {
		return Translation{}, fmt.Errorf("translate question: %w", err)
	}

	stripped := StripCodeFences(reply)
	var parsed rawTranslation
	if err := json.Unmarshal([]byte(stripped), &parsed); err != nil {
		t.log.Error().Err(err).Str("reply", reply).Msg("Failed to parse translation as JSON")
		return Translation{
			Explanation: fmt.Sprintf("Failed to generate query: %v", err),
			Parameters:  map[string]any{},
			Raw:         reply,
		}, nil
	}

	if parsed.Parameters == nil {
		parsed.Parameters = map[string]any{}
	}
	return Translation{
		Query:       strings.TrimSpace(parsed.Cypher),
		Parameters:  parsed.Parameters,
		Explanation: parsed.Explanation,
		Raw:         reply,
	}, nil
}

// AnswerQuestion synthesizes a natural language answer from the question,
// free-text context, and optional query results.
func (t *Translator) AnswerQuestion(ctx context.Context, question, background string, results []map[string]any) (string, error) {
	content := fmt.Sprintf("Question: %s\n\nContext: %s", question, background)
	if len(results) > 0 {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode query results: %w", err)
		}
		content += "\n\nQuery Results: " + string(encoded)
	}

	answer, err := t.chat.Complete(ctx, []Message{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: content},
	})
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return answer, nil
}

// SummarizeReviews produces a structured summary of a paper's official
// reviews. Any failure degrades to a fallback payload instead of an
// error, so a paper page never breaks on a flaky model.
func (t *Translator) SummarizeReviews(ctx context.Context, paperTitle string, reviews []*models.Review) models.ReviewSummary {
	var sb strings.Builder
	for i, review := range reviews {
		fmt.Fprintf(&sb, "\n--- Review %d ---\n", i+1)
		if review.Rating != nil {
			fmt.Fprintf(&sb, "Rating: %g\n", *review.Rating)
		}
		for _, field := range []string{"summary", "strengths", "weaknesses", "questions"} {
			if text := review.Content.Text(field); text != "" {
				fmt.Fprintf(&sb, "%s%s: %s\n", strings.ToUpper(field[:1]), field[1:], text)
			}
		}
	}

	reply, err := t.chat.Complete(ctx, []Message{
		{Role: "system", Content: summarySystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Paper: %s\n\nReviews:%s\n\nPlease summarize these reviews.", paperTitle, sb.String())},
	})
	if err != nil {
		t.log.Error().Err(err).Str("paper", paperTitle).Msg("Failed to summarize reviews")
		return summaryFallback(fmt.Sprintf("Failed to generate summary: %v", err))
	}

	var summary models.ReviewSummary
	if err := json.Unmarshal([]byte(StripCodeFences(reply)), &summary); err != nil {
		t.log.Error().Err(err).Str("paper", paperTitle).Msg("Failed to parse review summary as JSON")
		return summaryFallback(fmt.Sprintf("Failed to generate summary: %v", err))
	}
	if summary.OverallSentiment == "" {
		summary.OverallSentiment = "unknown"
	}
	return summary
}

func summaryFallback(reason string) models.ReviewSummary {
	return models.ReviewSummary{
		OverallSentiment: "unknown",
		MainStrengths:    []string{},
		MainWeaknesses:   []string{},
		KeyQuestions:     []string{},
		SummaryText:      reason,
	}
}

// StripCodeFences extracts the payload from a markdown code block. Models
// frequently wrap JSON in fences despite instructions; replies without
// fences pass through trimmed.
func StripCodeFences(reply string) string {
	if idx := strings.Index(reply, "```json"); idx >= 0 {
		rest := reply[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	if idx := strings.Index(reply, "```"); idx >= 0 {
		rest := reply[idx+len("```"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(reply)
}
