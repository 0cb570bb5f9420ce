package city

import (
	"math"
	"slices"
	"strings"

	"github.com/tidwall/rtree"

	"city_router/pkg/geo"
)

// City is a named location with planar coordinates.
type City struct {
	Name string
	X    float64
	Y    float64
}

// Point returns the city's coordinate.
func (c City) Point() geo.Point {
	return geo.Point{X: c.X, Y: c.Y}
}

// Record is one parsed input line: a city name and its coordinates.
type Record struct {
	Name string
	X    float64
	Y    float64
}

// LoadStats summarizes what Load did with its input.
type LoadStats struct {
	Loaded     int // distinct cities in the registry
	Skipped    int // records with an empty name or non-finite coordinates
	Duplicates int // records that overwrote an earlier city of the same name
}

// Registry holds the known cities. Each city gets a dense uint32 index in
// order of first appearance. A Registry is immutable after Load and safe for
// concurrent reads.
type Registry struct {
	cities []City
	index  map[string]uint32
	tree   rtree.RTreeG[uint32]
}

// Load builds a Registry from records. Bad records are skipped, not fatal.
// A repeated name overwrites the earlier coordinates but keeps the index
// assigned on first appearance.
func Load(records []Record) (*Registry, LoadStats) {
	var stats LoadStats
	r := &Registry{
		cities: make([]City, 0, len(records)),
		index:  make(map[string]uint32, len(records)),
	}

	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		p := geo.Point{X: rec.X, Y: rec.Y}
		if name == "" || !p.Finite() {
			stats.Skipped++
			continue
		}
		if idx, ok := r.index[name]; ok {
			r.cities[idx].X = rec.X
			r.cities[idx].Y = rec.Y
			stats.Duplicates++
			continue
		}
		r.index[name] = uint32(len(r.cities))
		r.cities = append(r.cities, City{Name: name, X: rec.X, Y: rec.Y})
	}

	// Coordinates are final only once all records are applied.
	for i, c := range r.cities {
		pt := [2]float64{c.X, c.Y}
		r.tree.Insert(pt, pt, uint32(i))
	}

	stats.Loaded = len(r.cities)
	return r, stats
}

// Len returns the number of cities.
func (r *Registry) Len() int {
	return len(r.cities)
}

// Lookup returns the city with the given name.
func (r *Registry) Lookup(name string) (City, bool) {
	idx, ok := r.index[name]
	if !ok {
		return City{}, false
	}
	return r.cities[idx], true
}

// Contains reports whether name is a known city.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Index returns the dense index of the named city.
func (r *Registry) Index(name string) (uint32, bool) {
	idx, ok := r.index[name]
	return idx, ok
}

// City returns the city at dense index i. It panics if i is out of range.
func (r *Registry) City(i uint32) City {
	return r.cities[i]
}

// Names returns all city names in load order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.cities))
	for i, c := range r.cities {
		names[i] = c.Name
	}
	return names
}

// Nearest returns the city closest to (x, y), or false for an empty registry.
func (r *Registry) Nearest(x, y float64) (City, bool) {
	target := [2]float64{x, y}
	itemDist := func(min, max [2]float64, idx uint32) float64 {
		dx := min[0] - x
		dy := min[1] - y
		return dx*dx + dy*dy
	}

	best := uint32(math.MaxUint32)
	r.tree.Nearby(rtree.BoxDist(target, target, itemDist),
		func(min, max [2]float64, idx uint32, dist float64) bool {
			best = idx
			return false
		})
	if best == math.MaxUint32 {
		return City{}, false
	}
	return r.cities[best], true
}

// Within returns the cities inside the axis-aligned box, in load order.
func (r *Registry) Within(minX, minY, maxX, maxY float64) []City {
	var idxs []uint32
	r.tree.Search([2]float64{minX, minY}, [2]float64{maxX, maxY},
		func(min, max [2]float64, idx uint32) bool {
			idxs = append(idxs, idx)
			return true
		})

	slices.Sort(idxs)
	found := make([]City, len(idxs))
	for i, idx := range idxs {
		found[i] = r.cities[idx]
	}
	return found
}
