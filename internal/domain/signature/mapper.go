package signature

// Point is a position in buffer pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the on-screen box of the drawing element, in display pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// PointerEvent carries client coordinates of a pointer.
type PointerEvent struct {
	ClientX float64 `json:"x"`
	ClientY float64 `json:"y"`
}

// Target ties the displayed box to the backing buffer size. The two differ
// when the element is scaled by layout.
type Target struct {
	Rect         Rect
	BufferWidth  int
	BufferHeight int
}

// Map converts a pointer event into buffer coordinates. Scale factors are
// recomputed on every call because layout may change between events. A nil
// target or an empty rect gives the zero point.
func Map(ev PointerEvent, t *Target) Point {
	if t == nil || t.Rect.Empty() {
		return Point{}
	}

	scaleX := float64(t.BufferWidth) / t.Rect.Width
	scaleY := float64(t.BufferHeight) / t.Rect.Height

	return Point{
		X: (ev.ClientX - t.Rect.Left) * scaleX,
		Y: (ev.ClientY - t.Rect.Top) * scaleY,
	}
}
