package annotation

import (
	"math/rand"
	"testing"
)

func TestZoomStaysInBounds(t *testing.T) {
	v := NewViewport()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0:
			v.ZoomIn()
		case 1:
			v.ZoomOut()
		case 2:
			v.WheelZoom(rng.Float64()*200 - 100)
		case 3:
			v.WheelZoom(-1)
		}
		if v.Zoom < MinZoom || v.Zoom > MaxZoom {
			t.Fatalf("step %d: zoom %v out of bounds", i, v.Zoom)
		}
	}
}

func TestZoomClamps(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 10; i++ {
		v.ZoomIn()
	}
	if v.Zoom != MaxZoom {
		t.Errorf("Expected %v, got %v", MaxZoom, v.Zoom)
	}
	for i := 0; i < 40; i++ {
		v.WheelZoom(120)
	}
	if v.Zoom != MinZoom {
		t.Errorf("Expected %v, got %v", MinZoom, v.Zoom)
	}
	v.WheelZoom(0)
	if v.Zoom != MinZoom {
		t.Errorf("Expected zero delta to be ignored, got %v", v.Zoom)
	}
}

func TestDragPan(t *testing.T) {
	v := NewViewport()

	v.DragTo(Point{X: 50, Y: 50})
	if v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("Expected no pan without a press, got %v,%v", v.PanX, v.PanY)
	}

	v.BeginDrag(Point{X: 100, Y: 100})
	v.DragTo(Point{X: 130, Y: 80})
	v.EndDrag()
	if v.PanX != 30 || v.PanY != -20 {
		t.Fatalf("Expected pan 30,-20, got %v,%v", v.PanX, v.PanY)
	}

	// A second drag continues from the current offset.
	v.BeginDrag(Point{X: 0, Y: 0})
	v.DragTo(Point{X: -900, Y: 10})
	if v.PanX != -870 || v.PanY != -10 {
		t.Errorf("Expected pan -870,-10, got %v,%v", v.PanX, v.PanY)
	}

	v.ResetZoom()
	if v.PanX != 0 || v.PanY != 0 || v.Zoom != 1 {
		t.Errorf("Expected reset viewport, got %+v", v)
	}
}
