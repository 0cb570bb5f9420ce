package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city_router/pkg/city"
	"city_router/pkg/citydata"
	"city_router/pkg/geo"
	"city_router/pkg/graph"
	"city_router/pkg/logging"
	"city_router/pkg/render"
	"city_router/pkg/routing"
)

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", cfg.logLevel, err)
		os.Exit(2)
	}
	logger := logging.New(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("cityroute failed", "err", err)
		os.Exit(1)
	}
}

// app holds everything loaded once at startup.
type app struct {
	cfg    config
	reg    *city.Registry
	router *routing.Service
	log    *slog.Logger
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	start := time.Now()

	metric, ok := geo.MetricByName(cfg.metric)
	if !ok {
		return fmt.Errorf("unknown metric %q", cfg.metric)
	}

	records, err := loadRecords(ctx, cfg, logger)
	if err != nil {
		return err
	}
	reg, stats := city.Load(records)
	if stats.Duplicates > 0 {
		logger.Warn("duplicate city names, last record wins", "count", stats.Duplicates)
	}
	if stats.Skipped > 0 {
		logger.Warn("skipped invalid city records", "count", stats.Skipped)
	}

	var roads []graph.Road
	if cfg.roadsPath != "" {
		roads, _, err = citydata.ReadRoadsFile(cfg.roadsPath, logger)
		if err != nil {
			return err
		}
	}

	a := &app{
		cfg:    cfg,
		reg:    reg,
		router: routing.NewService(reg, roads, graph.BuildOptions{Metric: metric}, logger),
		log:    logger,
	}
	logger.Info("data loaded", "cities", reg.Len(), "road_lines", len(roads), "took", time.Since(start).Round(time.Microsecond))

	if cfg.interact {
		return a.interactive(ctx, stdin, stdout)
	}
	if cfg.from == "" {
		// Nothing to route: render the plain map if asked to.
		return a.render(nil)
	}

	route, err := a.router.Route(ctx, cfg.from, cfg.to)
	if err != nil {
		return fmt.Errorf("%s → %s: %w", cfg.from, cfg.to, err)
	}
	fmt.Fprintln(stdout, render.Summary(route))
	return a.render(route)
}

func loadRecords(ctx context.Context, cfg config, logger *slog.Logger) ([]city.Record, error) {
	if cfg.osmPath != "" {
		records, err := citydata.ReadOSMFile(ctx, cfg.osmPath)
		if err != nil {
			return nil, err
		}
		logger.Info("cities read from OSM", "path", cfg.osmPath, "cities", len(records))
		return records, nil
	}
	records, _, err := citydata.ReadCitiesFile(cfg.citiesPath, logger)
	return records, err
}

// render writes the configured PNG and HTML outputs. route may be nil.
func (a *app) render(route *routing.Route) error {
	if a.cfg.pngPath == "" && a.cfg.htmlPath == "" {
		return nil
	}
	scene := render.Scene{Graph: a.router.Engine().Graph(), Route: route, Title: "Road map"}

	if a.cfg.pngPath != "" {
		if err := writeFile(a.cfg.pngPath, func(w io.Writer) error {
			return render.PNG(w, scene, render.PNGOptions{Background: a.cfg.background, Labels: a.cfg.labels})
		}); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		a.log.Info("map written", "path", a.cfg.pngPath)
	}
	if a.cfg.htmlPath != "" {
		if err := writeFile(a.cfg.htmlPath, func(w io.Writer) error {
			return render.HTML(w, scene)
		}); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		a.log.Info("graph page written", "path", a.cfg.htmlPath)
	}
	return nil
}

// writeFile writes via a temp file and renames it into place.
func writeFile(path string, write func(io.Writer) error) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
