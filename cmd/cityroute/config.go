package main

import (
	"errors"
	"flag"
	"io"
	"os"
)

type config struct {
	citiesPath string
	roadsPath  string
	osmPath    string
	metric     string
	from       string
	to         string
	pngPath    string
	htmlPath   string
	background string
	labels     bool
	logLevel   string
	interact   bool
}

// parseFlags reads the command line. Paths and the log level default to the
// CITYROUTE_* environment variables.
func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("cityroute", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.citiesPath, "cities", envOr("CITYROUTE_CITIES", "data/city-coordinates.txt"), `City list, one "Name, x, y" per line`)
	fs.StringVar(&cfg.roadsPath, "roads", envOr("CITYROUTE_ROADS", "data/cities-roads.txt"), `Road list, one "CityA - CityB" per line`)
	fs.StringVar(&cfg.osmPath, "osm", os.Getenv("CITYROUTE_OSM"), "Read cities from an .osm or .osm.pbf file instead of -cities")
	fs.StringVar(&cfg.metric, "metric", "euclidean", "Road length metric: euclidean or haversine (lon/lat data)")
	fs.StringVar(&cfg.from, "from", "", "Departure city")
	fs.StringVar(&cfg.to, "to", "", "Destination city")
	fs.StringVar(&cfg.pngPath, "png", "", "Write the map with the route to this PNG file")
	fs.StringVar(&cfg.htmlPath, "html", "", "Write an interactive HTML graph to this file")
	fs.StringVar(&cfg.background, "background", "", "Background image for -png")
	fs.BoolVar(&cfg.labels, "labels", true, "Draw city names in -png output")
	fs.StringVar(&cfg.logLevel, "log-level", envOr("CITYROUTE_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.interact, "i", false, "Interactive mode: read departure and destination from stdin")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if !cfg.interact && (cfg.from == "") != (cfg.to == "") {
		return config{}, errors.New("-from and -to must be given together")
	}
	if cfg.osmPath == "" && cfg.citiesPath == "" {
		return config{}, errors.New("one of -cities or -osm is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
