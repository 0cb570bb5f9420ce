package routing

import "math"

const noNode = ^uint32(0) // sentinel for "no node"

// QueryState holds the working buffers of a single shortest-path query.
// A QueryState is never shared between queries.
type QueryState struct {
	Dist    []float64 // tentative distance from the source, +Inf if unreached
	Pred    []uint32  // predecessor on the best known path (noNode = none)
	Visited []bool    // settled nodes
	Settled int       // number of nodes settled so far
}

// NewQueryState creates a QueryState for a graph with n nodes.
func NewQueryState(n uint32) *QueryState {
	dist := make([]float64, n)
	pred := make([]uint32, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}
	return &QueryState{
		Dist:    dist,
		Pred:    pred,
		Visited: make([]bool, n),
	}
}

// closestUnvisited scans all nodes for the unvisited one with the smallest
// finite distance. Ties go to the lowest index. Returns noNode if every
// remaining node is unreachable.
func (qs *QueryState) closestUnvisited() uint32 {
	best := noNode
	bestDist := math.Inf(1)
	for v, d := range qs.Dist {
		if !qs.Visited[v] && d < bestDist {
			best = uint32(v)
			bestDist = d
		}
	}
	return best
}

// path walks predecessor links back from target and returns the nodes in
// source→target order.
func (qs *QueryState) path(source, target uint32) []uint32 {
	var nodes []uint32
	for node := target; node != noNode; node = qs.Pred[node] {
		nodes = append(nodes, node)
		if node == source {
			break
		}
	}
	// Reverse to get source → target.
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}
