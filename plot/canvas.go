// MODUL: canvas
// ZWECK: Zeichen-Primitive fuer Liniendiagramme auf einem RGBA-Bild
// INPUT: Bildgroesse, Koordinaten, Farben, Text
// OUTPUT: *image.RGBA
// NEBENEFFEKTE: veraendert das uebergebene Bild
// ABHAENGIGKEITEN: golang.org/x/image/draw, vector, font, basicfont (extern)
// HINWEISE: Linien werden als gefuellte Vierecke gerastert, Text nutzt die 7x13 Bitmap-Schrift

package plot

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	colorAxis = color.RGBA{0x33, 0x33, 0x33, 0xff}
	colorGrid = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	colorLine = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
)

// face ist die Schrift fuer Achsen und Titel
var face font.Face = basicfont.Face7x13

// newCanvas erstellt ein weisses Bild der Groesse w x h
func newCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	return dst
}

// stroke sammelt Liniensegmente und rastert sie in einem Durchgang
type stroke struct {
	r     *vector.Rasterizer
	width float32
}

func newStroke(dst *image.RGBA, width float32) *stroke {
	b := dst.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	r.DrawOp = draw.Over
	return &stroke{r: r, width: width}
}

// segment fuegt die Linie (x0, y0) - (x1, y1) hinzu
func (s *stroke) segment(x0, y0, x1, y1 float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		s.dot(x0, y0)
		return
	}

	half := float64(s.width) / 2
	nx, ny := -dy/length*half, dx/length*half

	s.r.MoveTo(float32(x0+nx), float32(y0+ny))
	s.r.LineTo(float32(x1+nx), float32(y1+ny))
	s.r.LineTo(float32(x1-nx), float32(y1-ny))
	s.r.LineTo(float32(x0-nx), float32(y0-ny))
	s.r.ClosePath()
}

// dot fuegt ein kleines Quadrat um (x, y) hinzu
func (s *stroke) dot(x, y float64) {
	half := float64(s.width)
	s.r.MoveTo(float32(x-half), float32(y-half))
	s.r.LineTo(float32(x+half), float32(y-half))
	s.r.LineTo(float32(x+half), float32(y+half))
	s.r.LineTo(float32(x-half), float32(y+half))
	s.r.ClosePath()
}

func (s *stroke) draw(dst *image.RGBA, c color.Color) {
	s.r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// hline und vline zeichnen pixelgenaue Linien fuer Achsen und Gitter
func hline(dst *image.RGBA, x0, x1, y int, c color.Color) {
	draw.Draw(dst, image.Rect(x0, y, x1+1, y+1), &image.Uniform{c}, image.Point{}, draw.Src)
}

func vline(dst *image.RGBA, x, y0, y1 int, c color.Color) {
	draw.Draw(dst, image.Rect(x, y0, x+1, y1+1), &image.Uniform{c}, image.Point{}, draw.Src)
}

// text schreibt s mit der Grundlinie bei y; align 0 = links, 1 = mittig, 2 = rechts
func text(dst *image.RGBA, x, y int, s string, align int) {
	w := font.MeasureString(face, s).Ceil()
	switch align {
	case 1:
		x -= w / 2
	case 2:
		x -= w
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorAxis),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
