package citydata

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"city_router/pkg/city"
	"city_router/pkg/graph"
)

// ParseStats counts what a reader did with its input lines.
type ParseStats struct {
	Lines     int // non-blank, non-comment lines
	Records   int // lines turned into records
	Malformed int // lines skipped because they did not parse
}

// roadSeparator splits "CityA - CityB" lines.
const roadSeparator = " - "

// ReadCities parses one "Name, x, y" city per line. Blank lines and lines
// starting with '#' are ignored. Lines with the wrong number of fields or a
// non-numeric coordinate are skipped and counted, never fatal.
func ReadCities(r io.Reader, logger *slog.Logger) ([]city.Record, ParseStats, error) {
	logger = orDefault(logger)
	var stats ParseStats
	var records []city.Record

	err := eachLine(r, func(lineNo int, line string) {
		stats.Lines++
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			stats.Malformed++
			logger.Debug("skipping city line", "line", lineNo, "reason", "field count", "fields", len(parts))
			return
		}
		name := strings.TrimSpace(parts[0])
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if name == "" || errX != nil || errY != nil {
			stats.Malformed++
			logger.Debug("skipping city line", "line", lineNo, "reason", "bad value")
			return
		}
		records = append(records, city.Record{Name: name, X: x, Y: y})
		stats.Records++
	})
	if err != nil {
		return nil, stats, fmt.Errorf("read cities: %w", err)
	}

	if stats.Malformed > 0 {
		logger.Warn("skipped malformed city lines", "count", stats.Malformed)
	}
	return records, stats, nil
}

// ReadRoads parses one "CityA - CityB" road per line. Malformed lines are
// skipped and counted.
func ReadRoads(r io.Reader, logger *slog.Logger) ([]graph.Road, ParseStats, error) {
	logger = orDefault(logger)
	var stats ParseStats
	var roads []graph.Road

	err := eachLine(r, func(lineNo int, line string) {
		stats.Lines++
		parts := strings.Split(line, roadSeparator)
		if len(parts) != 2 {
			stats.Malformed++
			logger.Debug("skipping road line", "line", lineNo)
			return
		}
		a := strings.TrimSpace(parts[0])
		b := strings.TrimSpace(parts[1])
		if a == "" || b == "" {
			stats.Malformed++
			logger.Debug("skipping road line", "line", lineNo)
			return
		}
		roads = append(roads, graph.Road{A: a, B: b})
		stats.Records++
	})
	if err != nil {
		return nil, stats, fmt.Errorf("read roads: %w", err)
	}

	if stats.Malformed > 0 {
		logger.Warn("skipped malformed road lines", "count", stats.Malformed)
	}
	return roads, stats, nil
}

// ReadCitiesFile opens path and calls ReadCities.
func ReadCitiesFile(path string, logger *slog.Logger) ([]city.Record, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("open cities: %w", err)
	}
	defer f.Close()
	return ReadCities(f, logger)
}

// ReadRoadsFile opens path and calls ReadRoads.
func ReadRoadsFile(path string, logger *slog.Logger) ([]graph.Road, ParseStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("open roads: %w", err)
	}
	defer f.Close()
	return ReadRoads(f, logger)
}

// eachLine calls fn for every non-blank, non-comment line with surrounding
// whitespace and a leading UTF-8 BOM removed.
func eachLine(r io.Reader, fn func(lineNo int, line string)) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(lineNo, line)
	}
	return sc.Err()
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
