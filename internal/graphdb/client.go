// Package graphdb implements the graph storage layer on FalkorDB. All
// access goes through parameterized Cypher queries; user-supplied values
// are always bound as parameters, never interpolated into query text.
package graphdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/FalkorDB/falkordb-go"
	"github.com/rs/zerolog"
)

// ErrNotFound reports a definite missing entity, distinct from a query
// that matched zero rows of a collection.
var ErrNotFound = errors.New("graphdb: entity not found")

// Row is one record of a query result, keyed by return alias.
type Row map[string]any

// Client is the single long-lived graph connection. It is created once
// at process start, shared across requests, and safe for concurrent use
// (each query runs on the underlying connection pool).
type Client struct {
	log   zerolog.Logger
	graph *falkordb.Graph
}

// Connect opens the FalkorDB connection and selects the working graph.
func Connect(url, graphName string, log zerolog.Logger) (*Client, error) {
	db, err := falkordb.FromURL(url)
	if err != nil {
		return nil, fmt.Errorf("connect to falkordb at %s: %w", url, err)
	}
	graph := db.SelectGraph(graphName)

	c := &Client{
		graph: graph,
		log:   log.With().Str("component", "graphdb").Logger(),
	}
	c.log.Info().Str("url", url).Str("graph", graphName).Msg("Connected to FalkorDB")
	return c, nil
}

// Close releases the client. The driver owns the underlying connection
// pool and tears it down with the process; Close exists so callers have
// an explicit lifecycle hook.
func (c *Client) Close() error {
	c.log.Info().Msg("Graph connection closed")
	return nil
}

// ExecuteQuery runs a read query and returns the result rows in order.
func (c *Client) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := c.graph.Query(query, params, nil)
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}
	var rows []Row
	for result.Next() {
		record := result.Record()
		row := make(Row)
		for _, key := range record.Keys() {
			if v, ok := record.Get(key); ok {
				row[key] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExecuteWrite runs a write query.
func (c *Client) ExecuteWrite(ctx context.Context, query string, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.graph.Query(query, params, nil); err != nil {
		return fmt.Errorf("graph write: %w", err)
	}
	return nil
}

// limitClause renders a LIMIT clause from a structural integer. Numeric
// pagination values cannot carry injection payloads; everything textual
// still goes through bound parameters.
func limitClause(n int) string {
	return fmt.Sprintf(" LIMIT %d", n)
}

// String returns the value under key as a string, or "".
func (r Row) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Int returns the value under key as an int, or 0.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the value under key as a float, reporting presence.
// Graph nulls and missing aliases both read as absent.
func (r Row) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// FloatPtr returns the value under key as a *float64, nil when absent.
func (r Row) FloatPtr(key string) *float64 {
	if v, ok := r.Float(key); ok {
		return &v
	}
	return nil
}

// IntPtr returns the value under key as an *int, nil when absent.
func (r Row) IntPtr(key string) *int {
	if v, ok := r.Float(key); ok {
		i := int(v)
		return &i
	}
	return nil
}

// Strings returns the value under key as a string slice, skipping
// non-string and empty elements.
func (r Row) Strings(key string) []string {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Floats returns the value under key as a float slice.
func (r Row) Floats(key string) []float64 {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case float64:
			out = append(out, v)
		case int64:
			out = append(out, float64(v))
		}
	}
	return out
}
