package citydata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"city_router/pkg/city"
)

// defaultPlaces lists the place tag values imported as cities.
var defaultPlaces = []string{"city", "town"}

// OSMOptions configures OSM city extraction.
type OSMOptions struct {
	Places  []string // accepted place=* values; empty means city and town
	NameTag string   // tag holding the city name; empty means "name"
}

func (o OSMOptions) withDefaults() OSMOptions {
	if len(o.Places) == 0 {
		o.Places = defaultPlaces
	}
	if o.NameTag == "" {
		o.NameTag = "name"
	}
	return o
}

// isCity returns the city name for a node that should become a city.
func isCity(n *osm.Node, opt OSMOptions) (string, bool) {
	if !slices.Contains(opt.Places, n.Tags.Find("place")) {
		return "", false
	}
	name := strings.TrimSpace(n.Tags.Find(opt.NameTag))
	if name == "" {
		// Fall back to the plain name when a localized tag is missing.
		name = strings.TrimSpace(n.Tags.Find("name"))
	}
	return name, name != ""
}

// ParseOSM extracts city records from OSM XML. X is longitude, Y latitude.
func ParseOSM(ctx context.Context, r io.Reader, opts ...OSMOptions) ([]city.Record, error) {
	scanner := osmxml.New(ctx, r)
	return scanCities(scanner, opts)
}

// ParseOSMPBF extracts city records from an OSM PBF stream.
func ParseOSMPBF(ctx context.Context, r io.Reader, opts ...OSMOptions) ([]city.Record, error) {
	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	return scanCities(scanner, opts)
}

// ReadOSMFile extracts city records from a .osm or .osm.pbf file.
func ReadOSMFile(ctx context.Context, path string, opts ...OSMOptions) ([]city.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open osm: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".pbf") {
		return ParseOSMPBF(ctx, f, opts...)
	}
	return ParseOSM(ctx, f, opts...)
}

func scanCities(scanner osm.Scanner, opts []OSMOptions) ([]city.Record, error) {
	defer scanner.Close()

	var opt OSMOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	opt = opt.withDefaults()

	var records []city.Record
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		name, ok := isCity(n, opt)
		if !ok {
			continue
		}
		records = append(records, city.Record{Name: name, X: n.Lon, Y: n.Lat})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm: %w", err)
	}
	return records, nil
}
