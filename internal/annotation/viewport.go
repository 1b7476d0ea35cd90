package annotation

const (
	MinZoom = 0.5
	MaxZoom = 5.0

	zoomStep     = 1.5
	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is the zoom/pan transform of the video display. It is independent
// of playback.
type Viewport struct {
	Zoom     float64 `json:"zoom"`
	PanX     float64 `json:"panX"`
	PanY     float64 `json:"panY"`
	Dragging bool    `json:"dragging"`

	anchor Point
}

func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func (v *Viewport) ZoomIn() { v.Zoom = clampZoom(v.Zoom * zoomStep) }

func (v *Viewport) ZoomOut() { v.Zoom = clampZoom(v.Zoom / zoomStep) }

// WheelZoom applies one wheel tick: scrolling down zooms out by 10%, scrolling
// up zooms in by 10%. A zero delta is a horizontal scroll and is ignored.
func (v *Viewport) WheelZoom(deltaY float64) {
	switch {
	case deltaY > 0:
		v.Zoom = clampZoom(v.Zoom * wheelZoomOut)
	case deltaY < 0:
		v.Zoom = clampZoom(v.Zoom * wheelZoomIn)
	}
}

func (v *Viewport) ResetZoom() {
	v.Zoom = 1
	v.PanX = 0
	v.PanY = 0
}

func (v *Viewport) BeginDrag(p Point) {
	v.Dragging = true
	v.anchor = Point{X: p.X - v.PanX, Y: p.Y - v.PanY}
}

// DragTo moves the pan offset with the pointer. Pointer motion outside a
// press is ignored.
func (v *Viewport) DragTo(p Point) {
	if !v.Dragging {
		return
	}
	v.PanX = p.X - v.anchor.X
	v.PanY = p.Y - v.anchor.Y
}

func (v *Viewport) EndDrag() { v.Dragging = false }

func (s *Session) Viewport() Viewport { return s.viewport }

func (s *Session) ZoomIn() { s.viewport.ZoomIn() }

func (s *Session) ZoomOut() { s.viewport.ZoomOut() }

func (s *Session) ResetZoom() { s.viewport.ResetZoom() }

func (s *Session) WheelZoom(deltaY float64) { s.viewport.WheelZoom(deltaY) }

func (s *Session) BeginDrag(p Point) { s.viewport.BeginDrag(p) }

func (s *Session) DragTo(p Point) { s.viewport.DragTo(p) }

func (s *Session) EndDrag() { s.viewport.EndDrag() }
