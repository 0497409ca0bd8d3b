package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Sink is the raster buffer behind a Surface. Implementations are not safe for
// concurrent use; Surface serializes every call.
type Sink interface {
	// Resize reinitializes the buffer; existing content is lost.
	Resize(width, height int)
	Size() (width, height int)
	// Segment strokes a line from one point to another with the sink style.
	Segment(from, to Point)
	Clear()
	// Paint draws img stretched over the whole buffer.
	Paint(img image.Image)
	// Export renders the buffer as an image data URI.
	Export() (string, error)
}

// Style is fixed for the lifetime of a sink. Caps and joins are always round.
type Style struct {
	Color color.Color
	Width float64
}

var (
	AbsenceStyle = Style{Color: color.Black, Width: 1.5}
	ChangeStyle  = Style{Color: color.Black, Width: 2}
)

const (
	AbsenceWidth  = 250
	AbsenceHeight = 150
	// ChangeWidth is the initial width; clients resize to their container.
	ChangeWidth  = 460
	ChangeHeight = 200
)

const pngDataURIPrefix = "data:image/png;base64,"

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// ImageSink rasterizes strokes into an RGBA image.
type ImageSink struct {
	style Style
	img   *image.RGBA
	src   *image.Uniform
	r     *vector.Rasterizer
}

func NewImageSink(width, height int, style Style) *ImageSink {
	if style.Color == nil {
		style.Color = color.Black
	}
	s := &ImageSink{
		style: style,
		src:   image.NewUniform(style.Color),
	}
	s.Resize(width, height)
	return s
}

func (s *ImageSink) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.r = vector.NewRasterizer(width, height)
}

func (s *ImageSink) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSink) Image() image.Image {
	return s.img
}

// Segment fills the capsule around from→to: a rectangle with half circles on
// both ends, which gives round caps, and round joins between segments.
func (s *ImageSink) Segment(from, to Point) {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return
	}

	radius := s.style.Width / 2
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)

	// unit direction scaled by radius; a zero length segment becomes a dot
	ux, uy := radius, 0.0
	if length > 0 {
		ux, uy = dx/length*radius, dy/length*radius
	}
	// normal
	nx, ny := -uy, ux

	s.r.Reset(w, h)
	s.r.MoveTo(f32(from.X+nx), f32(from.Y+ny))
	s.r.LineTo(f32(to.X+nx), f32(to.Y+ny))
	s.arc(to, nx, ny, ux, uy)
	s.arc(to, ux, uy, -nx, -ny)
	s.r.LineTo(f32(from.X-nx), f32(from.Y-ny))
	s.arc(from, -nx, -ny, -ux, -uy)
	s.arc(from, -ux, -uy, nx, ny)
	s.r.ClosePath()
	s.r.Draw(s.img, s.img.Bounds(), s.src, image.Point{})
}

// arc appends a quarter circle around c from c+a to c+b.
func (s *ImageSink) arc(c Point, ax, ay, bx, by float64) {
	s.r.CubeTo(
		f32(c.X+ax+kappa*bx), f32(c.Y+ay+kappa*by),
		f32(c.X+bx+kappa*ax), f32(c.Y+by+kappa*ay),
		f32(c.X+bx), f32(c.Y+by),
	)
}

func (s *ImageSink) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

func (s *ImageSink) Paint(img image.Image) {
	if img == nil || img.Bounds().Empty() || s.img.Bounds().Empty() {
		return
	}
	xdraw.CatmullRom.Scale(s.img, s.img.Bounds(), img, img.Bounds(), xdraw.Over, nil)
}

func (s *ImageSink) Export() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.img); err != nil {
		return "", fmt.Errorf("encode signature png: %w", err)
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func f32(v float64) float32 {
	return float32(v)
}
