package routing

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"city_router/pkg/city"
	"city_router/pkg/graph"
)

// Router is the interface for route queries.
type Router interface {
	Route(ctx context.Context, from, to string) (*Route, error)
}

// Service implements Router over a fixed city registry and a replaceable
// road list. The graph is built on first use and reused until SetRoads
// installs a road list with a different fingerprint.
type Service struct {
	reg  *city.Registry
	opts graph.BuildOptions
	log  *slog.Logger

	mu          sync.RWMutex
	roads       []graph.Road
	fingerprint uint32
	engine      *Engine
	builtFor    uint32
	builds      int
}

var _ Router = (*Service)(nil)

// NewService creates a Service. A nil logger means slog.Default().
func NewService(reg *city.Registry, roads []graph.Road, opts graph.BuildOptions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		reg:  reg,
		opts: opts,
		log:  logger,
	}
	s.SetRoads(roads)
	return s
}

// SetRoads replaces the road list. The current graph stays in use if the new
// list has the same fingerprint.
func (s *Service) SetRoads(roads []graph.Road) {
	fp := graph.Fingerprint(roads)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roads = slices.Clone(roads)
	s.fingerprint = fp
}

// Engine returns the engine for the current road list, building the graph if
// the road list changed since the last build.
func (s *Service) Engine() *Engine {
	s.mu.RLock()
	if s.engine != nil && s.builtFor == s.fingerprint {
		eng := s.engine
		s.mu.RUnlock()
		return eng
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil && s.builtFor == s.fingerprint {
		return s.engine
	}

	g, stats := graph.Build(s.reg, s.roads, s.opts)
	s.engine = NewEngine(g)
	s.builtFor = s.fingerprint
	s.builds++

	s.log.Info("road graph built",
		"cities", g.NumNodes,
		"roads", stats.Roads,
		"unknown_city", stats.UnknownCity,
		"self_loops", stats.SelfLoops,
		"duplicates", stats.Duplicates,
		"components", s.engine.comps.Count())
	return s.engine
}

// Builds returns how many times the graph has been built.
func (s *Service) Builds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builds
}

// Cities returns the registry the service routes over.
func (s *Service) Cities() *city.Registry {
	return s.reg
}

// Route computes the shortest path between two named cities.
func (s *Service) Route(ctx context.Context, from, to string) (*Route, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eng := s.Engine()
	route, err := eng.ShortestPath(from, to)
	if err != nil {
		s.log.Debug("route failed", "from", from, "to", to, "err", err)
		return nil, err
	}
	s.log.Debug("route found", "from", from, "to", to,
		"hops", len(route.Cities)-1, "distance", route.TotalWeight, "settled", route.Settled)
	return route, nil
}
