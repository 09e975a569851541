package models

// Author is a person node. Identity is the authorid; names are not unique
// and must never be used as identity.
type Author struct {
	AuthorID   string `json:"authorid"`
	Name       string `json:"name"`
	PaperCount int    `json:"paper_count"`
}

// PaperBrief is the compact paper shape embedded in author responses.
type PaperBrief struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Conference string `json:"conference"`
}

// Collaborator is a co-author with the number of shared papers.
type Collaborator struct {
	AuthorID string `json:"authorid"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// AuthorDetail is an author with their papers and top collaborators.
type AuthorDetail struct {
	Author
	Papers        []PaperBrief   `json:"papers"`
	Collaborators []Collaborator `json:"collaborators"`
}

// GraphNode is a node in the collaboration network visualization.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// GraphLink is an edge in the collaboration network visualization.
type GraphLink struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight int      `json:"weight"`
	Papers []string `json:"papers,omitempty"`
}

// CollaborationNetwork is the author co-authorship graph.
type CollaborationNetwork struct {
	Nodes               []GraphNode `json:"nodes"`
	Links               []GraphLink `json:"links"`
	TotalAuthors        int         `json:"total_authors"`
	TotalCollaborations int         `json:"total_collaborations"`
}
