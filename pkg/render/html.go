package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HTML renders the scene as an interactive go-echarts graph page. Cities
// keep their coordinates; route cities and roads are highlighted.
func HTML(w io.Writer, s Scene) error {
	page := components.NewPage()
	page.AddCharts(graphChart(s))
	return page.Render(w)
}

func graphChart(s Scene) *charts.Graph {
	title := s.Title
	if title == "" {
		title = "city_router"
	}

	g := charts.NewGraph()
	g.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)

	nodes, links := graphData(s)
	g.AddSeries(
		"roads",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout: "none",
				Roam:   opts.Bool(true),
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return g
}

// graphData converts the scene into echarts nodes and links. Y is negated
// because the chart's y axis points down.
func graphData(s Scene) ([]opts.GraphNode, []opts.GraphLink) {
	if s.Graph == nil {
		return nil, nil
	}
	reg := s.Graph.Cities

	onRoute := make(map[uint32]bool)
	if s.Route != nil {
		for _, n := range s.Route.Nodes {
			onRoute[n] = true
		}
	}

	nodes := make([]opts.GraphNode, 0, s.Graph.NumNodes)
	for i := uint32(0); i < s.Graph.NumNodes; i++ {
		c := reg.City(i)
		color := "#dc0000"
		size := 8
		if onRoute[i] {
			color = "#00aa00"
			size = 12
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       c.Name,
			X:          float32(c.X),
			Y:          float32(-c.Y),
			SymbolSize: size,
			ItemStyle:  &opts.ItemStyle{Color: color},
		})
	}

	highlighted := s.routeArcs()
	var links []opts.GraphLink
	s.forEachRoad(func(u, v uint32, w float64) {
		style := &opts.LineStyle{Color: "#969696", Width: 1}
		if highlighted[[2]uint32{u, v}] {
			style = &opts.LineStyle{Color: "#00aa00", Width: 4}
		}
		links = append(links, opts.GraphLink{
			Source:    reg.City(u).Name,
			Target:    reg.City(v).Name,
			Value:     float32(w),
			LineStyle: style,
		})
	})
	return nodes, links
}
