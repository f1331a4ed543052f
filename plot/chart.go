// chart.go - Liniendiagramm einer Zeitreihe als PNG
// Hauptfunktionen: Chart.Image, Chart.Encode, Chart.WriteFile
package plot

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"strconv"
)

const (
	defaultWidth  = 640
	defaultHeight = 480

	marginLeft   = 70
	marginRight  = 20
	marginTop    = 30
	marginBottom = 45

	ticks = 5
)

// Chart ist eine einzelne Zeitreihe. NaN-Werte unterbrechen die Linie.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64

	Width  int
	Height int
}

// Image rendert das Diagramm
func (c *Chart) Image() (*image.RGBA, error) {
	if len(c.X) != len(c.Y) {
		return nil, fmt.Errorf("plot: %d x values for %d y values", len(c.X), len(c.Y))
	}

	w, h := c.Width, c.Height
	if w == 0 {
		w = defaultWidth
	}
	if h == 0 {
		h = defaultHeight
	}
	if w <= marginLeft+marginRight || h <= marginTop+marginBottom {
		return nil, fmt.Errorf("plot: image %dx%d too small", w, h)
	}

	dst := newCanvas(w, h)
	left, right := marginLeft, w-marginRight
	top, bottom := marginTop, h-marginBottom

	xmin, xmax := extent(c.X, c.Y)
	ymin, ymax := extent(c.Y, c.X)
	px := func(x float64) float64 { return float64(left) + (x-xmin)/(xmax-xmin)*float64(right-left) }
	py := func(y float64) float64 { return float64(bottom) - (y-ymin)/(ymax-ymin)*float64(bottom-top) }

	// Gitter und Beschriftung
	for i := 0; i <= ticks; i++ {
		xv := xmin + (xmax-xmin)*float64(i)/ticks
		yv := ymin + (ymax-ymin)*float64(i)/ticks
		x, y := int(math.Round(px(xv))), int(math.Round(py(yv)))

		vline(dst, x, top, bottom, colorGrid)
		hline(dst, left, right, y, colorGrid)
		text(dst, x, bottom+15, label(xv), 1)
		text(dst, left-6, y+4, label(yv), 2)
	}

	hline(dst, left, right, bottom, colorAxis)
	vline(dst, left, top, bottom, colorAxis)

	text(dst, (left+right)/2, h-8, c.XLabel, 1)
	text(dst, 8, top-10, c.YLabel, 0)
	text(dst, (left+right)/2, top-10, c.Title, 1)

	// Zeitreihe
	s := newStroke(dst, 2)
	prev := -1
	for i := range c.Y {
		if !finite(c.X[i], c.Y[i]) {
			prev = -1
			continue
		}
		if prev < 0 {
			if i+1 >= len(c.Y) || !finite(c.X[i+1], c.Y[i+1]) {
				s.dot(px(c.X[i]), py(c.Y[i]))
			}
		} else {
			s.segment(px(c.X[prev]), py(c.Y[prev]), px(c.X[i]), py(c.Y[i]))
		}
		prev = i
	}
	s.draw(dst, colorLine)

	return dst, nil
}

// Encode schreibt das Diagramm als PNG nach w
func (c *Chart) Encode(w io.Writer) error {
	img, err := c.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// WriteFile schreibt das Diagramm als PNG nach path und ueberschreibt vorhandene Dateien
func (c *Chart) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := c.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// extent gibt den Wertebereich von vs fuer alle Punkte mit endlichem Partner zurueck
func extent(vs, other []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range vs {
		if !finite(v, other[i]) {
			continue
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	switch {
	case math.IsInf(lo, 1):
		return 0, 1
	case lo == hi:
		pad := math.Max(math.Abs(lo)*0.1, 0.5)
		return lo - pad, hi + pad
	}
	return lo, hi
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func label(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}
