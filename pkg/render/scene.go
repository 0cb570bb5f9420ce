// Package render draws a road graph and an optional highlighted route.
// It only reads the data produced by the graph and routing packages.
package render

import (
	"fmt"
	"math"
	"strings"

	"city_router/pkg/graph"
	"city_router/pkg/routing"
)

// Scene is everything a renderer needs: the cities and roads of g and,
// optionally, a route to highlight.
type Scene struct {
	Graph *graph.Graph
	Route *routing.Route
	Title string
}

// bounds returns the coordinate extent of all cities.
func (s Scene) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for i := uint32(0); i < s.Graph.NumNodes; i++ {
		c := s.Graph.Cities.City(i)
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return minX, minY, maxX, maxY
}

// routeArcs returns the route's hops as a set of unordered node pairs.
func (s Scene) routeArcs() map[[2]uint32]bool {
	arcs := make(map[[2]uint32]bool)
	if s.Route == nil {
		return arcs
	}
	for i := 0; i+1 < len(s.Route.Nodes); i++ {
		u, v := s.Route.Nodes[i], s.Route.Nodes[i+1]
		arcs[[2]uint32{min(u, v), max(u, v)}] = true
	}
	return arcs
}

// forEachRoad calls fn once per undirected road.
func (s Scene) forEachRoad(fn func(u, v uint32, w float64)) {
	g := s.Graph
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			if v := g.Head[e]; u < v {
				fn(u, v, g.Weight[e])
			}
		}
	}
}

// Summary formats a route the way the CLI prints it.
func Summary(r *routing.Route) string {
	return fmt.Sprintf("Path: %s\nTotal distance: %.2f units", strings.Join(r.Cities, " → "), r.TotalWeight)
}
