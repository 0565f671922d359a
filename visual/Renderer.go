package visual

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/samuelfneumann/gofinger/physics"
)

// Arena dimensions in metres
const (
	ArenaRadius = 0.195
	ViewRadius  = 0.25
)

// Renderer draws a top-down view of a physics simulation: the arena
// boundary, every body as its bounding box or circle, and optionally the
// finger tips.
type Renderer struct {
	client physics.Client
	size   int

	Background color.Color
	Boundary   color.Color
	TipColor   color.Color
	BodyColor  color.Color
}

// NewRenderer returns a Renderer producing square images of size pixels
func NewRenderer(client physics.Client, size int) (*Renderer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("newRenderer: size must be positive, got %v",
			size)
	}

	return &Renderer{
		client:     client,
		size:       size,
		Background: color.White,
		Boundary:   color.NRGBA{R: 60, G: 60, B: 60, A: 255},
		TipColor:   color.NRGBA{R: 20, G: 20, B: 20, A: 255},
		BodyColor:  color.NRGBA{R: 150, G: 150, B: 150, A: 255},
	}, nil
}

// toPixel converts world (x, y) coordinates to pixel coordinates
func (r *Renderer) toPixel(p r3.Vector) (float64, float64) {
	scale := float64(r.size) / (2 * ViewRadius)
	return (p.X + ViewRadius) * scale, (ViewRadius - p.Y) * scale
}

func (r *Renderer) toPixelLength(l float64) float64 {
	return l * float64(r.size) / (2 * ViewRadius)
}

// Render draws the current scene and returns the image
func (r *Renderer) Render(tips []r3.Vector) (image.Image, error) {
	dc := gg.NewContext(r.size, r.size)
	dc.SetColor(r.Background)
	dc.Clear()

	cx, cy := r.toPixel(r3.Vector{})
	dc.DrawCircle(cx, cy, r.toPixelLength(ArenaRadius))
	dc.SetColor(r.Boundary)
	dc.SetLineWidth(2.0)
	dc.Stroke()

	for _, id := range r.client.Bodies() {
		info, err := r.client.Body(id)
		if err != nil {
			return nil, fmt.Errorf("render: %v", err)
		}
		r.drawBody(dc, info)
	}

	for _, tip := range tips {
		x, y := r.toPixel(tip)
		dc.DrawCircle(x, y, r.toPixelLength(0.008))
		dc.SetColor(r.TipColor)
		dc.Fill()
	}

	return dc.Image(), nil
}

// SavePNG renders the current scene to a PNG file
func (r *Renderer) SavePNG(filename string, tips []r3.Vector) error {
	img, err := r.Render(tips)
	if err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("savePNG: %v", err)
	}
	return nil
}

func (r *Renderer) drawBody(dc *gg.Context, info physics.BodyInfo) {
	var c color.Color = r.BodyColor
	if info.Color != nil {
		c = info.Color.Color()
	}
	x, y := r.toPixel(info.Position)

	dc.ClearPath()
	switch info.Type {
	case physics.GeomSphere:
		dc.DrawCircle(x, y, r.toPixelLength(info.Radius))

	default:
		// Yaw of the body about the vertical axis
		q := info.Orientation
		yaw := math.Atan2(2*(q.Real*q.Kmag+q.Imag*q.Jmag),
			1-2*(q.Jmag*q.Jmag+q.Kmag*q.Kmag))

		w := r.toPixelLength(2 * info.HalfExtents.X)
		h := r.toPixelLength(2 * info.HalfExtents.Y)
		dc.Push()
		dc.RotateAbout(-yaw, x, y)
		dc.DrawRectangle(x-w/2, y-h/2, w, h)
		dc.Pop()
	}
	dc.SetColor(c)
	dc.Fill()
}
