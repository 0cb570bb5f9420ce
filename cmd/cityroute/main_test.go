package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"city_router/pkg/city"
	"city_router/pkg/graph"
	"city_router/pkg/logging"
	"city_router/pkg/routing"
)

const (
	testCities = "A, 0, 0\nB, 3, 0\nC, 3, 4\nD, 10, 10\n"
	testRoads  = "A - B\nB - C\nA - C\n"
)

func quietLogger() *slog.Logger {
	return logging.New(io.Discard, slog.LevelError)
}

// writeData writes the A/B/C/D test data and returns a config pointing at it.
func writeData(t *testing.T) config {
	t.Helper()
	dir := t.TempDir()
	cities := filepath.Join(dir, "cities.txt")
	roads := filepath.Join(dir, "roads.txt")
	require.NoError(t, os.WriteFile(cities, []byte(testCities), 0o644))
	require.NoError(t, os.WriteFile(roads, []byte(testRoads), 0o644))
	return config{citiesPath: cities, roadsPath: roads, metric: "euclidean", logLevel: "error"}
}

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"CITYROUTE_CITIES", "CITYROUTE_ROADS", "CITYROUTE_OSM", "CITYROUTE_LOG_LEVEL"} {
			t.Setenv(key, "")
		}
		cfg, err := parseFlags(nil, io.Discard)
		require.NoError(t, err)
		require.Equal(t, "data/city-coordinates.txt", cfg.citiesPath)
		require.Equal(t, "data/cities-roads.txt", cfg.roadsPath)
		require.Equal(t, "euclidean", cfg.metric)
		require.Equal(t, "info", cfg.logLevel)
		require.True(t, cfg.labels)
		require.False(t, cfg.interact)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("CITYROUTE_CITIES", "/tmp/c.txt")
		t.Setenv("CITYROUTE_LOG_LEVEL", "debug")
		cfg, err := parseFlags(nil, io.Discard)
		require.NoError(t, err)
		require.Equal(t, "/tmp/c.txt", cfg.citiesPath)
		require.Equal(t, "debug", cfg.logLevel)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("CITYROUTE_CITIES", "/tmp/c.txt")
		cfg, err := parseFlags([]string{"-cities", "x.txt", "-from", "A", "-to", "B", "-metric", "haversine"}, io.Discard)
		require.NoError(t, err)
		require.Equal(t, "x.txt", cfg.citiesPath)
		require.Equal(t, "A", cfg.from)
		require.Equal(t, "B", cfg.to)
		require.Equal(t, "haversine", cfg.metric)
	})

	t.Run("from without to", func(t *testing.T) {
		_, err := parseFlags([]string{"-from", "A"}, io.Discard)
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parseFlags([]string{"-bogus"}, io.Discard)
		require.Error(t, err)
	})
}

func TestRunOneShot(t *testing.T) {
	cfg := writeData(t)
	cfg.from, cfg.to = "A", "C"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), &out, quietLogger()))
	require.Equal(t, "Path: A → C\nTotal distance: 5.00 units\n", out.String())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     error
	}{
		{"unknown city", "A", "Nowhere", routing.ErrUnknownCity},
		{"unreachable", "A", "D", routing.ErrNoRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeData(t)
			cfg.from, cfg.to = tt.from, tt.to
			err := run(context.Background(), cfg, strings.NewReader(""), io.Discard, quietLogger())
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("bad metric", func(t *testing.T) {
		cfg := writeData(t)
		cfg.metric = "manhattan"
		require.Error(t, run(context.Background(), cfg, strings.NewReader(""), io.Discard, quietLogger()))
	})

	t.Run("missing cities file", func(t *testing.T) {
		cfg := writeData(t)
		cfg.citiesPath = filepath.Join(t.TempDir(), "nope.txt")
		err := run(context.Background(), cfg, strings.NewReader(""), io.Discard, quietLogger())
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := writeData(t)
	dir := t.TempDir()
	cfg.from, cfg.to = "A", "C"
	cfg.pngPath = filepath.Join(dir, "map.png")
	cfg.htmlPath = filepath.Join(dir, "map.html")

	require.NoError(t, run(context.Background(), cfg, strings.NewReader(""), io.Discard, quietLogger()))

	f, err := os.Open(cfg.pngPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)

	html, err := os.ReadFile(cfg.htmlPath)
	require.NoError(t, err)
	require.Contains(t, string(html), "echarts")

	_, err = os.Stat(cfg.pngPath + ".tmp")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunInteractive(t *testing.T) {
	cfg := writeData(t)
	cfg.interact = true

	input := strings.Join([]string{
		"A", "C", // route
		"", "C", // missing departure
		"A", "Nowhere", // unknown city
		"A", "D", // unreachable
		"@2.9,0.2", "A", // nearest city to (2.9, 0.2) is B
		"quit",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, strings.NewReader(input), &out, quietLogger()))

	got := out.String()
	require.Contains(t, got, "4 cities loaded")
	require.Contains(t, got, "Path: A → C\nTotal distance: 5.00 units")
	require.Contains(t, got, msgMissingInput)
	require.Contains(t, got, msgInvalidCity)
	require.Contains(t, got, msgNoPath)
	require.Contains(t, got, "  → B\n")
	require.Contains(t, got, "Path: B → A\nTotal distance: 3.00 units")
}

func TestRunInteractiveEOF(t *testing.T) {
	cfg := writeData(t)
	cfg.interact = true
	require.NoError(t, run(context.Background(), cfg, strings.NewReader("A\n"), io.Discard, quietLogger()))
}

func TestRunInteractiveCanceled(t *testing.T) {
	cfg := writeData(t)
	cfg.interact = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := run(ctx, cfg, strings.NewReader("A\nC\n"), io.Discard, quietLogger())
	require.ErrorIs(t, err, context.Canceled)
}

func testService(t *testing.T) (*city.Registry, *routing.Service) {
	t.Helper()
	reg, _ := city.Load([]city.Record{
		{Name: "A", X: 0, Y: 0},
		{Name: "B", X: 3, Y: 0},
		{Name: "C", X: 3, Y: 4},
		{Name: "D", X: 10, Y: 10},
	})
	roads := []graph.Road{{A: "A", B: "B"}, {A: "B", B: "C"}, {A: "A", B: "C"}}
	return reg, routing.NewService(reg, roads, graph.BuildOptions{}, quietLogger())
}

func TestFormSubmit(t *testing.T) {
	reg, svc := testService(t)

	tests := []struct {
		name     string
		from, to string
		wantMsg  string
		wantPath []string
	}{
		{"both empty", "", "", msgMissingInput, nil},
		{"blank destination", "A", "  ", msgMissingInput, nil},
		{"unknown departure", "Nowhere", "A", msgInvalidCity, nil},
		{"unknown destination", "A", "Nowhere", msgInvalidCity, nil},
		{"case sensitive", "a", "C", msgInvalidCity, nil},
		{"unreachable", "A", "D", msgNoPath, nil},
		{"route", "A", "C", "", []string{"A", "C"}},
		{"trimmed", " B ", "C", "", []string{"B", "C"}},
		{"same city", "B", "B", "", []string{"B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := FormState{Departure: tt.from, Destination: tt.to, Message: "stale"}
			route, err := form.Submit(context.Background(), reg, svc)
			require.NoError(t, err)
			require.Equal(t, tt.wantMsg, form.Message)
			if tt.wantPath == nil {
				require.Nil(t, route)
				return
			}
			require.NotNil(t, route)
			require.Equal(t, tt.wantPath, route.Cities)
		})
	}
}

func TestFormEnter(t *testing.T) {
	var form FormState
	require.Equal(t, "Departure city: ", form.Prompt())
	require.False(t, form.Enter("A"))
	require.Equal(t, "Destination city: ", form.Prompt())
	require.True(t, form.Enter("B"))
	require.Equal(t, "A", form.Departure)
	require.Equal(t, "B", form.Destination)
	require.Equal(t, fieldDeparture, form.Active)
}

func TestResolveInput(t *testing.T) {
	reg, _ := testService(t)

	tests := []struct {
		in, want string
	}{
		{"Ankara", "Ankara"},
		{"@0.1,-0.2", "A"},
		{"@ 9 , 9 ", "D"},
		{"@3,3.9", "C"},
		{"@3", "@3"},
		{"@x,y", "@x,y"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, resolveInput(reg, tt.in), tt.in)
	}
}
