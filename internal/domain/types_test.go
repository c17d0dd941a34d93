package domain

import "testing"

func TestRegionNormalizedSwapsReversedCorners(t *testing.T) {
	r := Region{Active: true, StartX: 0.6, StartY: 0.7, EndX: 0.2, EndY: 0.1}
	n := r.Normalized()
	if n.StartX != 0.2 || n.EndX != 0.6 {
		t.Fatalf("x not normalized: %+v", n)
	}
	if n.StartY != 0.1 || n.EndY != 0.7 {
		t.Fatalf("y not normalized: %+v", n)
	}
	// original must be untouched
	if r.StartX != 0.6 {
		t.Fatalf("Normalized mutated the receiver: %+v", r)
	}
}

func TestRegionRectConversion(t *testing.T) {
	r := Region{Active: true, StartX: 0.5, StartY: 0.5, EndX: 0.1, EndY: 0.3}
	rect := r.Rect()
	if rect.X != 0.1 || rect.Y != 0.3 {
		t.Fatalf("rect origin mismatch: %+v", rect)
	}
	if rect.Width != 0.4 || rect.Height != 0.2 {
		t.Fatalf("rect size mismatch: %+v", rect)
	}
}

func TestNewProjectAppliesDefaultAspect(t *testing.T) {
	p := NewProject("https://x.test/a.png", "Sample", 0)
	if p.AspectRatio != DefaultAspectRatio {
		t.Fatalf("aspect = %v, want %v", p.AspectRatio, DefaultAspectRatio)
	}
	if p.Slides == nil || len(p.Slides) != 0 {
		t.Fatalf("slides should be empty, got %v", p.Slides)
	}
	p2 := NewProject("", "", 0.75)
	if p2.AspectRatio != 0.75 {
		t.Fatalf("explicit aspect overridden: %v", p2.AspectRatio)
	}
}
