package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// Point is a planar coordinate. For lon/lat data X is longitude and Y is
// latitude, both in degrees.
type Point struct {
	X float64
	Y float64
}

// Metric returns the non-negative distance between two points.
type Metric func(a, b Point) float64

// Euclidean returns the straight-line distance between a and b in the
// units of the input coordinates.
func Euclidean(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HaversinePoints returns the great-circle distance in meters between two
// lon/lat points.
func HaversinePoints(a, b Point) float64 {
	return Haversine(a.Y, a.X, b.Y, b.X)
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// MetricByName resolves a metric flag value. The empty string selects
// Euclidean.
func MetricByName(name string) (Metric, bool) {
	switch name {
	case "", "euclidean":
		return Euclidean, true
	case "haversine":
		return HaversinePoints, true
	}
	return nil, false
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
