package graphdb

import (
	"context"

	"github.com/confmesh/paperkg/pkg/models"
)

// collaboratorCap bounds the collaborator list on an author detail.
const collaboratorCap = 10

// GetAuthor loads one author with their papers and most frequent
// collaborators. Returns ErrNotFound for an unknown authorid.
func (c *Client) GetAuthor(ctx context.Context, authorID string) (*models.AuthorDetail, error) {
	params := map[string]any{"authorid": authorID}

	rows, err := c.ExecuteQuery(ctx, `
		MATCH (a:Author {authorid: $authorid})
		RETURN a.authorid AS authorid, a.name AS name`, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	detail := &models.AuthorDetail{
		Author: models.Author{
			AuthorID: rows[0].String("authorid"),
			Name:     rows[0].String("name"),
		},
		Papers:        []models.PaperBrief{},
		Collaborators: []models.Collaborator{},
	}

	paperRows, err := c.ExecuteQuery(ctx, `
		MATCH (a:Author {authorid: $authorid})-[:AUTHORED]->(p:Paper)
		RETURN p.id AS id, p.title AS title, p.status AS status, p.conference AS conference
		ORDER BY p.title ASC`, params)
	if err != nil {
		return nil, err
	}
	for _, row := range paperRows {
		detail.Papers = append(detail.Papers, models.PaperBrief{
			ID:         row.String("id"),
			Title:      row.String("title"),
			Status:     row.String("status"),
			Conference: row.String("conference"),
		})
	}
	detail.PaperCount = len(detail.Papers)

	collabRows, err := c.ExecuteQuery(ctx, `
		MATCH (a:Author {authorid: $authorid})-[:AUTHORED]->(p:Paper)<-[:AUTHORED]-(collab:Author)
		WHERE collab.authorid <> $authorid
		WITH collab, count(DISTINCT p) AS shared
		ORDER BY shared DESC
		RETURN collab.authorid AS authorid, collab.name AS name, shared`+
		limitClause(collaboratorCap), params)
	if err != nil {
		return nil, err
	}
	for _, row := range collabRows {
		detail.Collaborators = append(detail.Collaborators, models.Collaborator{
			AuthorID: row.String("authorid"),
			Name:     row.String("name"),
			Count:    row.Int("shared"),
		})
	}

	return detail, nil
}

// NetworkFilter narrows the collaboration network query.
type NetworkFilter struct {
	MinCollaborations int
	Conference        string
	Limit             int
}

// CollaborationNetwork builds the author co-authorship graph for
// visualization: one link per author pair, weighted by shared papers.
func (c *Client) CollaborationNetwork(ctx context.Context, filter NetworkFilter) (*models.CollaborationNetwork, error) {
	if filter.MinCollaborations < 1 {
		filter.MinCollaborations = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 500
	}

	query := `
		MATCH (a1:Author)-[:AUTHORED]->(p:Paper)<-[:AUTHORED]-(a2:Author)
		WHERE a1.authorid < a2.authorid`
	params := map[string]any{"min_collab": filter.MinCollaborations}
	if filter.Conference != "" {
		query += " AND p.conference = $conference"
		params["conference"] = filter.Conference
	}
	query += `
		WITH a1, a2, count(DISTINCT p) AS collaborations, collect(DISTINCT p.id)[..5] AS paper_ids
		WHERE collaborations >= $min_collab
		RETURN a1.authorid AS source_id, a1.name AS source_name,
		       a2.authorid AS target_id, a2.name AS target_name,
		       collaborations, paper_ids
		ORDER BY collaborations DESC`
	query += limitClause(filter.Limit)

	rows, err := c.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, err
	}

	network := &models.CollaborationNetwork{
		Nodes: []models.GraphNode{},
		Links: []models.GraphLink{},
	}
	seen := make(map[string]struct{})
	addNode := func(id, name string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		network.Nodes = append(network.Nodes, models.GraphNode{ID: id, Label: name, Type: "author"})
	}

	for _, row := range rows {
		addNode(row.String("source_id"), row.String("source_name"))
		addNode(row.String("target_id"), row.String("target_name"))
		network.Links = append(network.Links, models.GraphLink{
			Source: row.String("source_id"),
			Target: row.String("target_id"),
			Weight: row.Int("collaborations"),
			Papers: row.Strings("paper_ids"),
		})
	}
	network.TotalAuthors = len(network.Nodes)
	network.TotalCollaborations = len(network.Links)

	return network, nil
}
