package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"city_router/pkg/city"
	"city_router/pkg/render"
	"city_router/pkg/routing"
)

const (
	msgMissingInput = "Please enter both departure and destination cities!"
	msgInvalidCity  = "Invalid city names! Please check your input."
	msgNoPath       = "No path found between these cities!"
)

type field int

const (
	fieldDeparture field = iota
	fieldDestination
)

// FormState is the departure/destination form of the interactive mode.
type FormState struct {
	Active      field
	Departure   string
	Destination string
	Message     string
}

// Enter stores text in the active field and moves focus to the next one.
// It reports whether the form is ready to submit.
func (f *FormState) Enter(text string) bool {
	switch f.Active {
	case fieldDeparture:
		f.Departure = text
		f.Active = fieldDestination
		return false
	default:
		f.Destination = text
		f.Active = fieldDeparture
		return true
	}
}

func (f *FormState) Prompt() string {
	if f.Active == fieldDestination {
		return "Destination city: "
	}
	return "Departure city: "
}

// Submit validates the form and routes between the two cities. Input
// problems are reported through f.Message with a nil route and nil error;
// the returned error is set only when the query itself could not run.
func (f *FormState) Submit(ctx context.Context, cities interface{ Contains(string) bool }, router routing.Router) (*routing.Route, error) {
	from := strings.TrimSpace(f.Departure)
	to := strings.TrimSpace(f.Destination)

	switch {
	case from == "" || to == "":
		f.Message = msgMissingInput
		return nil, nil
	case !cities.Contains(from) || !cities.Contains(to):
		f.Message = msgInvalidCity
		return nil, nil
	}

	route, err := router.Route(ctx, from, to)
	switch {
	case errors.Is(err, routing.ErrNoRoute):
		f.Message = msgNoPath
		return nil, nil
	case errors.Is(err, routing.ErrUnknownCity):
		f.Message = msgInvalidCity
		return nil, nil
	case err != nil:
		return nil, err
	}
	f.Message = ""
	return route, nil
}

// resolveInput turns "@x,y" into the name of the nearest city. Anything else
// is returned unchanged.
func resolveInput(reg *city.Registry, text string) string {
	coords, ok := strings.CutPrefix(text, "@")
	if !ok {
		return text
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return text
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return text
	}
	c, ok := reg.Nearest(x, y)
	if !ok {
		return text
	}
	return c.Name
}

// interactive runs the form loop until EOF or "quit".
func (a *app) interactive(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "%d cities loaded. Type a city name or @x,y for the nearest city; \"quit\" exits.\n", a.reg.Len())

	var form FormState
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, form.Prompt())
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "quit" {
			return nil
		}

		text := resolveInput(a.reg, line)
		if text != line {
			fmt.Fprintf(out, "  → %s\n", text)
		}
		if !form.Enter(text) {
			continue
		}

		route, err := form.Submit(ctx, a.reg, a.router)
		if err != nil {
			return err
		}
		if route == nil {
			fmt.Fprintln(out, form.Message)
			continue
		}
		fmt.Fprintln(out, render.Summary(route))
		if err := a.render(route); err != nil {
			a.log.Error("render failed", "err", err)
		}
	}
}
