package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// PNGOptions configures PNG output.
type PNGOptions struct {
	Width      int    // image width in pixels; 0 means 1200
	Height     int    // image height in pixels; 0 means 600
	Margin     float64
	Background string // optional image drawn stretched under the map
	Labels     bool   // draw city names
}

func (o PNGOptions) withDefaults() PNGOptions {
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Margin <= 0 {
		o.Margin = 30
	}
	return o
}

var (
	roadColor  = color.RGBA{150, 150, 150, 255}
	routeColor = color.RGBA{0, 170, 0, 255}
	cityColor  = color.RGBA{220, 0, 0, 255}
	startColor = color.RGBA{0, 200, 0, 255}
	endColor   = color.RGBA{0, 0, 255, 255}
)

// projection maps city coordinates to pixels, keeping the aspect ratio and
// putting larger y values higher in the image.
type projection struct {
	minX, minY float64
	scale      float64
	margin     float64
	height     float64
}

func (p projection) apply(x, y float64) (float64, float64) {
	return p.margin + (x-p.minX)*p.scale, p.height - p.margin - (y-p.minY)*p.scale
}

func newProjection(s Scene, o PNGOptions) projection {
	minX, minY, maxX, maxY := s.bounds()
	w := float64(o.Width) - 2*o.Margin
	h := float64(o.Height) - 2*o.Margin

	scale := 1.0
	if spanX, spanY := maxX-minX, maxY-minY; spanX > 0 || spanY > 0 {
		scale = min(w/max(spanX, 1e-9), h/max(spanY, 1e-9))
	}
	return projection{minX: minX, minY: minY, scale: scale, margin: o.Margin, height: float64(o.Height)}
}

// Draw paints the scene on a new gg context.
func Draw(s Scene, opts PNGOptions) (*gg.Context, error) {
	o := opts.withDefaults()
	dc := gg.NewContext(o.Width, o.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if o.Background != "" {
		img, err := gg.LoadImage(o.Background)
		if err != nil {
			return nil, fmt.Errorf("load background: %w", err)
		}
		b := img.Bounds()
		dc.Push()
		dc.Scale(float64(o.Width)/float64(b.Dx()), float64(o.Height)/float64(b.Dy()))
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	}

	if s.Graph == nil || s.Graph.NumNodes == 0 {
		return dc, nil
	}

	proj := newProjection(s, o)
	reg := s.Graph.Cities
	highlighted := s.routeArcs()

	// Roads first, then the route on top of them.
	dc.SetColor(roadColor)
	dc.SetLineWidth(1.5)
	s.forEachRoad(func(u, v uint32, _ float64) {
		if highlighted[[2]uint32{u, v}] {
			return
		}
		x1, y1 := proj.apply(reg.City(u).X, reg.City(u).Y)
		x2, y2 := proj.apply(reg.City(v).X, reg.City(v).Y)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	})

	if s.Route != nil && len(s.Route.Nodes) > 1 {
		dc.SetColor(routeColor)
		dc.SetLineWidth(4)
		first := reg.City(s.Route.Nodes[0])
		dc.MoveTo(proj.apply(first.X, first.Y))
		for _, node := range s.Route.Nodes[1:] {
			c := reg.City(node)
			dc.LineTo(proj.apply(c.X, c.Y))
		}
		dc.Stroke()
	}

	for i := uint32(0); i < s.Graph.NumNodes; i++ {
		c := reg.City(i)
		x, y := proj.apply(c.X, c.Y)
		dc.SetColor(cityColor)
		dc.DrawCircle(x, y, 4)
		dc.Fill()
		if o.Labels {
			dc.SetColor(color.Black)
			dc.DrawStringAnchored(c.Name, x, y+12, 0.5, 0.5)
		}
	}

	// Mark the start green and the end blue.
	if s.Route != nil && len(s.Route.Nodes) > 0 {
		start := reg.City(s.Route.Nodes[0])
		end := reg.City(s.Route.Nodes[len(s.Route.Nodes)-1])
		ex, ey := proj.apply(end.X, end.Y)
		dc.SetColor(endColor)
		dc.DrawCircle(ex, ey, 7)
		dc.Fill()
		sx, sy := proj.apply(start.X, start.Y)
		dc.SetColor(startColor)
		dc.DrawCircle(sx, sy, 7)
		dc.Fill()

		caption := fmt.Sprintf("%s → %s: %.2f units", start.Name, end.Name, s.Route.TotalWeight)
		if s.Title != "" {
			caption = s.Title + "  " + caption
		}
		dc.SetColor(color.Black)
		dc.DrawString(caption, o.Margin, float64(o.Height)-o.Margin/3)
	}

	return dc, nil
}

// PNG renders the scene and writes it to w as PNG.
func PNG(w io.Writer, s Scene, opts PNGOptions) error {
	dc, err := Draw(s, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}
