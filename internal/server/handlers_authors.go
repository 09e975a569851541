package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confmesh/paperkg/internal/graphdb"
)

// handleGetAuthor serves one author with papers and top collaborators.
func (s *Service) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	detail, err := s.store.GetAuthor(r.Context(), chi.URLParam(r, "authorID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleCollaborationNetwork serves the co-authorship graph for force
// graph visualization. Node sizes scale with degree.
func (s *Service) handleCollaborationNetwork(w http.ResponseWriter, r *http.Request) {
	network, err := s.store.CollaborationNetwork(r.Context(), graphdb.NetworkFilter{
		Conference:        r.URL.Query().Get("conference"),
		MinCollaborations: queryInt(r, "min_collaborations", 2, 1, 1<<30),
		Limit:             queryInt(r, "limit", DefaultNetworkLimit, 10, MaxNetworkLimit),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	degrees := make(map[string]int)
	totalWeight := 0
	for _, link := range network.Links {
		degrees[link.Source]++
		degrees[link.Target]++
		totalWeight += link.Weight
	}
	avgCollaborations := 0.0
	if len(network.Links) > 0 {
		avgCollaborations = float64(totalWeight) / float64(len(network.Links))
	}

	type sizedNode struct {
		ID     string `json:"id"`
		Label  string `json:"label"`
		Type   string `json:"type"`
		Size   int    `json:"size"`
		Degree int    `json:"degree"`
	}
	nodes := make([]sizedNode, 0, len(network.Nodes))
	for _, node := range network.Nodes {
		degree := degrees[node.ID]
		if degree == 0 {
			degree = 1
		}
		size := 5 + degree*2
		if size > 30 {
			size = 30
		}
		nodes = append(nodes, sizedNode{
			ID:     node.ID,
			Label:  node.Label,
			Type:   node.Type,
			Size:   size,
			Degree: degree,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":                nodes,
		"links":                network.Links,
		"total_authors":        network.TotalAuthors,
		"total_collaborations": network.TotalCollaborations,
		"avg_collaborations":   avgCollaborations,
	})
}
