package graph

import (
	"iter"
	"slices"

	"city_router/pkg/city"
)

// Graph is an undirected road graph in CSR (Compressed Sparse Row) format.
// Every road is stored as two directed arcs with the same weight. Node
// indices are the dense city indices of Cities. A Graph is never mutated
// after Build and may be shared between goroutines.
type Graph struct {
	NumNodes uint32
	NumEdges uint32    // directed arcs, twice the number of distinct roads
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are arcs from node i
	Head     []uint32  // len: NumEdges; target node of each arc, ascending per node
	Weight   []float64 // len: NumEdges; road length in coordinate units
	Cities   *city.Registry
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// EdgeWeight returns the weight of the arc u→v.
func (g *Graph) EdgeWeight(u, v uint32) (float64, bool) {
	if u >= g.NumNodes || v >= g.NumNodes {
		return 0, false
	}
	start, end := g.EdgesFrom(u)
	i, found := slices.BinarySearch(g.Head[start:end], v)
	if !found {
		return 0, false
	}
	return g.Weight[start+uint32(i)], true
}

// Neighbors yields the neighbours of u with the road length to each, in
// ascending index order.
func (g *Graph) Neighbors(u uint32) iter.Seq2[uint32, float64] {
	return func(yield func(uint32, float64) bool) {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			if !yield(g.Head[e], g.Weight[e]) {
				return
			}
		}
	}
}

// Degree returns the number of roads touching u.
func (g *Graph) Degree(u uint32) int {
	start, end := g.EdgesFrom(u)
	return int(end - start)
}

// NumRoads returns the number of undirected roads.
func (g *Graph) NumRoads() int {
	return int(g.NumEdges / 2)
}
