// Package chart draws the Given vs Remaining donut as an image file.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/theirongolddev/p200/internal/tracker"
)

const (
	defaultSize = 5 * vg.Inch
	innerRatio  = 0.6
	margin      = 0.3 * vg.Inch
)

// Options controls the image layout.
type Options struct {
	Width, Height vg.Length
	Title         string
	Format        func(float64) string // legend amounts; defaults to plain digits
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultSize
	}
	if o.Height <= 0 {
		o.Height = defaultSize
	}
	if o.Format == nil {
		o.Format = func(v float64) string { return strconv.FormatFloat(v, 'f', 0, 64) }
	}
	return o
}

// FormatForPath maps a file extension to an image format name.
func FormatForPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps":
		return ext, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (want .png, .svg or .pdf)", filepath.Ext(path))
}

// WriteFile renders the donut for v into path; the extension picks the format.
func WriteFile(path string, v tracker.View, opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // output path chosen by the user
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Render(f, format, v, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Render draws the donut and writes it to w in the named format.
func Render(w io.Writer, format string, v tracker.View, opts Options) error {
	opts = opts.withDefaults()
	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("creating %s canvas: %w", format, err)
	}

	dc := draw.New(c)
	area := draw.Crop(dc, margin, -margin, margin, -margin)

	titleH := vg.Length(0)
	if opts.Title != "" {
		titleH = vg.Points(22)
		fillText(area, opts.Title, vg.Points(14), mid(area.Rectangle).X, area.Max.Y-vg.Points(14), color.Black, draw.XCenter)
	}
	legendH := vg.Points(18) * vg.Length(len(v.Segments))

	ringArea := area.Rectangle
	ringArea.Max.Y -= titleH
	ringArea.Min.Y += legendH + vg.Points(6)
	center := mid(ringArea)
	outer := min(ringArea.Size().X, ringArea.Size().Y) / 2
	drawRing(dc, center, outer, outer*innerRatio, v.Segments)

	fillText(area, fmt.Sprintf("%.1f%%", v.Progress.Percent), vg.Points(16), center.X, center.Y-vg.Points(6), color.Black, draw.XCenter)

	y := area.Min.Y + legendH - vg.Points(14)
	for _, s := range v.Segments {
		sw := vg.Points(10)
		dc.SetColor(hexColor(s.Color))
		dc.Fill(rect(vg.Point{X: area.Min.X, Y: y}, sw, sw))
		label := fmt.Sprintf("%s: %.1f%%  %s", s.Name, s.Share*100, opts.Format(s.Value))
		fillText(area, label, vg.Points(10), area.Min.X+sw+vg.Points(6), y, color.Gray{Y: 60}, draw.XLeft)
		y -= vg.Points(18)
	}

	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("writing %s chart: %w", format, err)
	}
	return nil
}

// drawRing fills one annular sector per segment, starting at the left
// and sweeping clockwise. An all-zero ring is drawn grey.
func drawRing(c draw.Canvas, center vg.Point, outer, inner vg.Length, segs []tracker.Segment) {
	start := math.Pi
	drawn := false
	for _, s := range segs {
		if s.Share <= 0 {
			continue
		}
		sweep := -2 * math.Pi * s.Share
		c.SetColor(hexColor(s.Color))
		c.Fill(sector(center, outer, inner, start, sweep))
		start += sweep
		drawn = true
	}
	if !drawn {
		c.SetColor(color.Gray{Y: 220})
		c.Fill(sector(center, outer, inner, math.Pi, -2*math.Pi))
	}
}

func sector(center vg.Point, outer, inner vg.Length, start, sweep float64) vg.Path {
	at := func(r vg.Length, a float64) vg.Point {
		return vg.Point{X: center.X + r*vg.Length(math.Cos(a)), Y: center.Y + r*vg.Length(math.Sin(a))}
	}
	var p vg.Path
	p.Move(at(outer, start))
	p.Arc(center, outer, start, sweep)
	p.Line(at(inner, start+sweep))
	p.Arc(center, inner, start+sweep, -sweep)
	p.Close()
	return p
}

func rect(o vg.Point, w, h vg.Length) vg.Path {
	var p vg.Path
	p.Move(o)
	p.Line(vg.Point{X: o.X + w, Y: o.Y})
	p.Line(vg.Point{X: o.X + w, Y: o.Y + h})
	p.Line(vg.Point{X: o.X, Y: o.Y + h})
	p.Close()
	return p
}

func mid(r vg.Rectangle) vg.Point {
	return vg.Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

func fillText(c draw.Canvas, txt string, size vg.Length, x, y vg.Length, clr color.Color, align draw.XAlignment) {
	sty := draw.TextStyle{
		Color:   clr,
		Font:    plot.DefaultFont,
		Handler: plot.DefaultTextHandler,
		XAlign:  align,
	}
	sty.Font.Size = size
	c.FillText(sty, vg.Point{X: x, Y: y}, txt)
}

// hexColor parses "#rrggbb"; anything else is black.
func hexColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Black
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}
