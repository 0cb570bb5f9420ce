package graph

import (
	"hash/crc32"
	"sort"
	"strings"

	"city_router/pkg/city"
	"city_router/pkg/geo"
)

// Road is an undirected connection between two named cities.
type Road struct {
	A string
	B string
}

// BuildOptions configures Build.
type BuildOptions struct {
	Metric geo.Metric // edge weight function; nil means geo.Euclidean
}

// BuildStats summarizes how the road list was applied.
type BuildStats struct {
	Roads       int // distinct undirected roads in the graph
	UnknownCity int // roads dropped because an endpoint is not in the registry
	SelfLoops   int // roads dropped because both ends name the same city
	Duplicates  int // roads that repeated an earlier pair and overwrote its weight
}

// Build creates an undirected CSR Graph over every city in reg.
// Cities without roads are kept as isolated nodes.
func Build(reg *city.Registry, roads []Road, opts ...BuildOptions) (*Graph, BuildStats) {
	var opt BuildOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	metric := opt.Metric
	if metric == nil {
		metric = geo.Euclidean
	}

	var stats BuildStats
	numNodes := uint32(reg.Len())

	// Step 1: Resolve names and compute weights. Keyed by the ordered pair so
	// a repeated road overwrites the earlier weight.
	type arc struct {
		from, to uint32
	}
	weights := make(map[arc]float64, len(roads)*2)

	for _, r := range roads {
		u, okU := reg.Index(strings.TrimSpace(r.A))
		v, okV := reg.Index(strings.TrimSpace(r.B))
		if !okU || !okV {
			stats.UnknownCity++
			continue
		}
		if u == v {
			stats.SelfLoops++
			continue
		}

		w := metric(reg.City(u).Point(), reg.City(v).Point())
		if _, dup := weights[arc{u, v}]; dup {
			stats.Duplicates++
		}
		weights[arc{u, v}] = w
		weights[arc{v, u}] = w
	}

	// Step 2: Sort arcs by source node, then target.
	compact := make([]arc, 0, len(weights))
	for a := range weights {
		compact = append(compact, a)
	}
	sort.Slice(compact, func(i, j int) bool {
		if compact[i].from != compact[j].from {
			return compact[i].from < compact[j].from
		}
		return compact[i].to < compact[j].to
	})

	// Step 3: Build CSR arrays.
	numEdges := uint32(len(compact))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	weight := make([]float64, numEdges)

	for i, a := range compact {
		head[i] = a.to
		weight[i] = weights[a]
	}

	// Build FirstOut via counting.
	for _, a := range compact {
		firstOut[a.from+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	stats.Roads = int(numEdges / 2)

	return &Graph{
		NumNodes: numNodes,
		NumEdges: numEdges,
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		Cities:   reg,
	}, stats
}

// Fingerprint returns a CRC32 checksum of the road list. Two lists with the
// same fingerprint build the same graph over the same registry.
func Fingerprint(roads []Road) uint32 {
	h := crc32.NewIEEE()
	for _, r := range roads {
		h.Write([]byte(strings.TrimSpace(r.A)))
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(r.B)))
		h.Write([]byte{'\n'})
	}
	return h.Sum32()
}
