package event

import (
	"errors"
	"fmt"

	"github.com/delegasi/delegation-manager/pkg/model"
	"github.com/dominikbraun/graph"
)

// step is an edge of the nominal workflow, the order in which an event is expected to move through
// its statuses. Transitions themselves are not restricted to these steps.
type step struct {
	from model.Status
	kind Kind
}

var nominalSteps = []step{
	{from: model.StatusNeedsVerification, kind: KindAccept},
	{from: model.StatusNeedsVerification, kind: KindVerificationReject},
	{from: model.StatusNeedsVerification, kind: KindVerificatorReject},
	{from: model.StatusNeedsVerification, kind: KindApprove},
	{from: model.StatusVerificationRejected, kind: KindFix},
	{from: model.StatusNeedsRecipientVerification, kind: KindConfirm},
	{from: model.StatusNeedsRecipientVerification, kind: KindReject},
	{from: model.StatusNeedsRecipientVerification, kind: KindRejectHandler},
	{from: model.StatusNeedsRecipientVerification, kind: KindVerificatorReject},
}

// StatusInfo describes a status of the workflow.
type StatusInfo struct {
	Status   model.Status `json:"status"`
	Terminal bool         `json:"terminal"`
	// Next lists the transitions nominally taken from this status.
	Next []Kind `json:"next"`
}

// Workflow builds the nominal workflow graph with statuses as vertices and transitions as edges.
// Transitions of different kinds leading to the same status are merged into one edge carrying all
// kinds.
func Workflow() (graph.Graph[model.Status, model.Status], error) {
	g := graph.New(func(status model.Status) model.Status {
		return status
	}, graph.Directed())

	for _, status := range model.Statuses {
		err := g.AddVertex(status)
		if err != nil {
			return nil, fmt.Errorf("failed adding vertex for status %q: %v", status, err)
		}
	}

	for _, s := range nominalSteps {
		transition, ok := Lookup(s.kind)
		if !ok {
			return nil, fmt.Errorf("no transition of kind %q", s.kind)
		}

		err := g.AddEdge(s.from, transition.Target, graph.EdgeData([]Kind{s.kind}))
		if errors.Is(err, graph.ErrEdgeAlreadyExists) {
			edge, err := g.Edge(s.from, transition.Target)
			if err != nil {
				return nil, fmt.Errorf("failed getting edge from %q to %q: %v", s.from, transition.Target, err)
			}
			kinds := append(edge.Properties.Data.([]Kind), s.kind)
			err = g.UpdateEdge(s.from, transition.Target, graph.EdgeData(kinds))
			if err != nil {
				return nil, fmt.Errorf("failed updating edge from %q to %q: %v", s.from, transition.Target, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed adding edge from %q to %q: %v", s.from, transition.Target, err)
		}
	}

	return g, nil
}

// Statuses returns every status in workflow order. A status is terminal if the nominal workflow
// doesn't continue from it.
func Statuses() ([]StatusInfo, error) {
	g, err := Workflow()
	if err != nil {
		return nil, err
	}

	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed getting adjacency map: %v", err)
	}

	statuses := make([]StatusInfo, len(model.Statuses))
	for i, status := range model.Statuses {
		edges := adjacencyMap[status]
		next := make([]Kind, 0, len(edges))
		// iterate the steps rather than the map to keep a stable order
		for _, s := range nominalSteps {
			if s.from == status {
				next = append(next, s.kind)
			}
		}
		statuses[i] = StatusInfo{
			Status:   status,
			Terminal: len(edges) == 0,
			Next:     next,
		}
	}

	return statuses, nil
}
