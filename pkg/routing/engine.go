package routing

import (
	"errors"
	"fmt"

	"city_router/pkg/graph"
)

var (
	// ErrUnknownCity is returned when a query names a city that is not in the
	// registry.
	ErrUnknownCity = errors.New("invalid city name")

	// ErrNoRoute is returned when both cities exist but no road path
	// connects them.
	ErrNoRoute = errors.New("no path found")

	// ErrBrokenPath is returned by PathWeight when two consecutive cities of a
	// path are not joined by a road.
	ErrBrokenPath = errors.New("path is not connected")
)

// Route is the result of a successful query. Cities holds at least one
// name; a single name means source and target are the same city.
type Route struct {
	Cities      []string
	Nodes       []uint32
	TotalWeight float64
	Settled     int // nodes settled by the search
}

// Engine answers shortest-path queries on an immutable graph. It is safe for
// concurrent use: every query allocates its own QueryState.
type Engine struct {
	g     *graph.Graph
	comps *graph.Components
}

// NewEngine creates a routing engine for g.
func NewEngine(g *graph.Graph) *Engine {
	return &Engine{
		g:     g,
		comps: graph.FindComponents(g),
	}
}

// Graph returns the graph the engine routes on.
func (e *Engine) Graph() *graph.Graph {
	return e.g
}

// ShortestPath computes the minimum-weight road path between two named
// cities.
func (e *Engine) ShortestPath(source, target string) (*Route, error) {
	s, ok := e.g.Cities.Index(source)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, source)
	}
	t, ok := e.g.Cities.Index(target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, target)
	}
	return e.ShortestPathIndex(s, t)
}

// ShortestPathIndex is ShortestPath on dense node indices.
func (e *Engine) ShortestPathIndex(source, target uint32) (*Route, error) {
	n := e.g.NumNodes
	if source >= n || target >= n {
		return nil, fmt.Errorf("%w: node index out of range", ErrUnknownCity)
	}

	if source == target {
		return e.newRoute([]uint32{source}, 0)
	}

	// Different components can never meet; skip the scan.
	if !e.comps.Same(source, target) {
		return nil, ErrNoRoute
	}

	qs := NewQueryState(n)
	qs.Dist[source] = 0

	for i := uint32(0); i < n; i++ {
		u := qs.closestUnvisited()
		if u == noNode {
			break // remaining nodes unreachable
		}
		if u == target {
			break // target distance is final
		}

		qs.Visited[u] = true
		qs.Settled++

		start, end := e.g.EdgesFrom(u)
		for ei := start; ei < end; ei++ {
			v := e.g.Head[ei]
			if qs.Visited[v] {
				continue
			}
			newDist := qs.Dist[u] + e.g.Weight[ei]
			if newDist < qs.Dist[v] {
				qs.Dist[v] = newDist
				qs.Pred[v] = u
			}
		}
	}

	if qs.Pred[target] == noNode {
		return nil, ErrNoRoute
	}

	return e.newRoute(qs.path(source, target), qs.Settled)
}

func (e *Engine) newRoute(nodes []uint32, settled int) (*Route, error) {
	total, err := PathWeight(e.g, nodes)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(nodes))
	for i, node := range nodes {
		names[i] = e.g.Cities.City(node).Name
	}

	return &Route{
		Cities:      names,
		Nodes:       nodes,
		TotalWeight: total,
		Settled:     settled,
	}, nil
}

// PathWeight sums the road weights between consecutive nodes of a path,
// looking each road up in g. A single-node path weighs 0.
func PathWeight(g *graph.Graph, nodes []uint32) (float64, error) {
	if len(nodes) == 0 {
		return 0, fmt.Errorf("%w: empty path", ErrBrokenPath)
	}
	if nodes[0] >= g.NumNodes {
		return 0, fmt.Errorf("%w: node %d out of range", ErrBrokenPath, nodes[0])
	}

	var total float64
	for i := 0; i < len(nodes)-1; i++ {
		w, ok := g.EdgeWeight(nodes[i], nodes[i+1])
		if !ok {
			return 0, fmt.Errorf("%w: no road between nodes %d and %d", ErrBrokenPath, nodes[i], nodes[i+1])
		}
		total += w
	}
	return total, nil
}

// Distance is PathWeight for callers that only hold city names.
func Distance(g *graph.Graph, cities []string) (float64, error) {
	nodes := make([]uint32, len(cities))
	for i, name := range cities {
		idx, ok := g.Cities.Index(name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownCity, name)
		}
		nodes[i] = idx
	}
	return PathWeight(g, nodes)
}
