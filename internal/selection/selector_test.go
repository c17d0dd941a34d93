package selection

import (
	"math"
	"testing"

	"slowreveal/internal/domain"
)

func TestPointerDragCommitsFractions(t *testing.T) {
	s := New()
	s.PointerDown(80, 60, 800, 600)
	s.PointerMove(400, 300, 800, 600)
	s.PointerUp()

	r := s.Region()
	if !r.Active {
		t.Fatalf("region not active after drag")
	}
	if r.StartX != 0.1 || r.StartY != 0.1 || r.EndX != 0.5 || r.EndY != 0.5 {
		t.Fatalf("unexpected region: %+v", r)
	}
}

func TestPointerCoordinatesClampedToViewport(t *testing.T) {
	s := New()
	s.PointerDown(-10, 20, 800, 600)
	s.PointerMove(900, 700, 800, 600)
	s.PointerUp()

	r := s.Region()
	if r.StartX != 0 {
		t.Fatalf("startX = %v, want 0", r.StartX)
	}
	if r.EndX != 1 || r.EndY != 1 {
		t.Fatalf("end = (%v,%v), want (1,1)", r.EndX, r.EndY)
	}
}

func TestPointerReverseDragKeepsRawCorners(t *testing.T) {
	s := New()
	s.PointerDown(400, 300, 800, 600)
	s.PointerMove(80, 60, 800, 600)
	s.PointerUp()

	r := s.Region()
	if r.StartX != 0.5 || r.EndX != 0.1 {
		t.Fatalf("corners were reordered: %+v", r)
	}
	n := r.Normalized()
	if n.StartX != 0.1 || n.EndX != 0.5 {
		t.Fatalf("Normalized did not order corners: %+v", n)
	}
}

func TestPointerClickCommitsNothing(t *testing.T) {
	s := New()
	s.PointerDown(400, 300, 800, 600)
	s.PointerUp()
	if s.Region().Active {
		t.Fatalf("no-op click committed a region: %+v", s.Region())
	}
}

func TestPointerUntouchedGestureCommitsNothing(t *testing.T) {
	s := New()
	s.PointerDown(0, 0, 800, 600)
	s.PointerUp()
	if s.Region().Active {
		t.Fatalf("origin release committed a region: %+v", s.Region())
	}
}

func TestPointerDownClearsCommittedRegion(t *testing.T) {
	s := New()
	s.PointerDown(80, 60, 800, 600)
	s.PointerMove(400, 300, 800, 600)
	s.PointerUp()

	s.PointerDown(160, 120, 800, 600)
	if s.Region().Active {
		t.Fatalf("new drag did not invalidate previous region")
	}
}

func TestLockFreezesPointerInput(t *testing.T) {
	s := New()
	s.PointerDown(80, 60, 800, 600)
	s.PointerMove(400, 300, 800, 600)
	s.PointerUp()
	want := s.Region()

	s.ToggleLock()
	s.PointerDown(200, 200, 800, 600)
	s.PointerMove(600, 400, 800, 600)
	s.PointerUp()
	if s.Region() != want {
		t.Fatalf("locked region changed: %+v != %+v", s.Region(), want)
	}

	s.ToggleLock()
	s.PointerDown(200, 150, 800, 600)
	if s.Region().Active {
		t.Fatalf("unlock did not restore pointer input")
	}
}

func TestDegenerateViewportIgnored(t *testing.T) {
	s := New()
	s.PointerDown(10, 10, 0, 0)
	if s.Dragging() {
		t.Fatalf("drag started on zero-size viewport")
	}
}

func TestKeyboardShadowDefault(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	want := domain.Region{StartX: 0.05, StartY: 0.05, EndX: 0.15, EndY: 0.15}
	if s.Shadow() != want {
		t.Fatalf("shadow = %+v, want %+v", s.Shadow(), want)
	}
}

func TestKeyboardMoveSteps(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	s.ToggleMove()
	s.StepKey(DirRight)
	s.StepKey(DirDown)

	sh := s.Shadow()
	if !approx(sh.StartX, 0.06) || !approx(sh.EndX, 0.16) {
		t.Fatalf("x after right step: %+v", sh)
	}
	if !approx(sh.StartY, 0.06) || !approx(sh.EndY, 0.16) {
		t.Fatalf("y after down step: %+v", sh)
	}
}

func TestKeyboardMoveClampsVertical(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	s.ToggleMove()
	for i := 0; i < 20; i++ {
		s.StepKey(DirUp)
	}
	if s.Shadow().StartY != 0 {
		t.Fatalf("startY = %v, want 0", s.Shadow().StartY)
	}
	if !approx(s.Shadow().EndY, 0.10) {
		t.Fatalf("height changed while clamping: %+v", s.Shadow())
	}

	for i := 0; i < 200; i++ {
		s.StepKey(DirDown)
	}
	if s.Shadow().EndY != 1 {
		t.Fatalf("endY = %v, want 1", s.Shadow().EndY)
	}
	if !approx(s.Shadow().StartY, 0.90) {
		t.Fatalf("height changed while clamping: %+v", s.Shadow())
	}
}

func TestKeyboardResizeNeverInverts(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	s.ToggleResize()
	for i := 0; i < 30; i++ {
		s.StepKey(DirUp)
		s.StepKey(DirLeft)
	}
	sh := s.Shadow()
	if sh.EndX < sh.StartX || sh.EndY < sh.StartY {
		t.Fatalf("shadow inverted: %+v", sh)
	}
	if sh.EndX != sh.StartX || sh.EndY != sh.StartY {
		t.Fatalf("shrink did not stop at the start corner: %+v", sh)
	}
}

func TestKeyboardSubmodesExclusive(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	s.ToggleMove()
	s.ToggleResize()
	if s.Submode() != SubmodeResize {
		t.Fatalf("submode = %v, want resize", s.Submode())
	}
	// switching submodes committed the shadow
	if !s.Region().Active {
		t.Fatalf("exclusive switch did not commit the shadow")
	}
}

func TestKeyboardExitCommitsShadow(t *testing.T) {
	s := New()
	s.SetMode(ModeKeyboard)
	s.ToggleMove()
	s.StepKey(DirRight)
	s.ExitSubmode()

	if s.Submode() != SubmodeNone {
		t.Fatalf("submode still engaged")
	}
	r := s.Region()
	if !r.Active || !approx(r.StartX, 0.06) {
		t.Fatalf("exit did not commit moved shadow: %+v", r)
	}

	// a second exit with nothing engaged is a no-op
	s.StepKey(DirRight)
	s.ExitSubmode()
	if !approx(s.Region().StartX, 0.06) {
		t.Fatalf("disengaged arrow key changed the region: %+v", s.Region())
	}
}

func TestKeyboardIgnoredInPointerMode(t *testing.T) {
	s := New()
	s.ToggleMove()
	s.StepKey(DirRight)
	if s.Submode() != SubmodeNone || s.Region().Active {
		t.Fatalf("keyboard input leaked into pointer mode")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := New()
	s.ToggleLock()
	s.SetMode(ModeKeyboard)
	s.ToggleMove()
	s.StepKey(DirDown)
	s.ExitSubmode()

	s.Reset()
	if s.Region().Active {
		t.Fatalf("region survived reset")
	}
	if s.Locked() {
		t.Fatalf("lock survived reset")
	}
	want := domain.Region{StartX: 0.05, StartY: 0.05, EndX: 0.15, EndY: 0.15}
	if s.Shadow() != want {
		t.Fatalf("shadow not restored: %+v", s.Shadow())
	}
}

func TestSeedLoadsRegionAndShadow(t *testing.T) {
	s := New()
	r := domain.Region{Active: true, StartX: 0.2, StartY: 0.3, EndX: 0.6, EndY: 0.7}
	s.Seed(r)
	if s.Region() != r {
		t.Fatalf("seed did not set region: %+v", s.Region())
	}
	sh := s.Shadow()
	if sh.StartX != 0.2 || sh.EndY != 0.7 {
		t.Fatalf("seed did not follow into shadow: %+v", sh)
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
