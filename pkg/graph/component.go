package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Components labels every node of a graph with its connected component.
// It is computed once and read-only afterwards.
type Components struct {
	label []uint32 // component root per node
	size  map[uint32]uint32
}

// FindComponents computes the connected components of g.
func FindComponents(g *Graph) *Components {
	uf := NewUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, g.Head[e])
		}
	}

	c := &Components{
		label: make([]uint32, g.NumNodes),
		size:  make(map[uint32]uint32),
	}
	for i := uint32(0); i < g.NumNodes; i++ {
		root := uf.Find(i)
		c.label[i] = root
		c.size[root]++
	}
	return c
}

// Same reports whether u and v are in the same component.
func (c *Components) Same(u, v uint32) bool {
	return c.label[u] == c.label[v]
}

// Count returns the number of components, isolated cities included.
func (c *Components) Count() int {
	return len(c.size)
}

// Largest returns the node indices of the largest component in ascending
// order. Ties go to the component containing the lowest node index.
func (c *Components) Largest() []uint32 {
	if len(c.label) == 0 {
		return nil
	}

	bestRoot := c.label[0]
	for _, root := range c.label {
		if c.size[root] > c.size[bestRoot] {
			bestRoot = root
		}
	}

	nodes := make([]uint32, 0, c.size[bestRoot])
	for i, root := range c.label {
		if root == bestRoot {
			nodes = append(nodes, uint32(i))
		}
	}
	return nodes
}
