package cliptrack

import (
	"image"
	"testing"
)

func TestClipStackDeferredSave(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)
	if s.Depth() != 1 {
		t.Fatalf("initial Depth = %d", s.Depth())
	}

	// Saves with no clip mutation never materialize entries.
	for i := 0; i < 10; i++ {
		s.Save()
	}
	if s.Depth() != 1 {
		t.Errorf("Depth after deferred saves = %d", s.Depth())
	}
	for i := 0; i < 10; i++ {
		s.Restore()
	}
	if s.Depth() != 1 {
		t.Errorf("Depth after restores = %d", s.Depth())
	}
	if !s.IsWideOpen() {
		t.Error("balanced save/restore should leave the clip wide open")
	}
}

func TestClipStackCopyOnWrite(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)

	s.Save()
	if s.Depth() != 1 {
		t.Fatalf("Depth after save = %d", s.Depth())
	}

	// The first mutation after a save materializes exactly one entry.
	s.ClipRect(XYWH(10, 10, 40, 40), Identity(), OpIntersect, false)
	if s.Depth() != 2 {
		t.Fatalf("Depth after mutation = %d", s.Depth())
	}
	s.ClipRect(XYWH(20, 20, 10, 10), Identity(), OpIntersect, false)
	if s.Depth() != 2 {
		t.Fatalf("second mutation materialized another entry: Depth = %d", s.Depth())
	}
	if s.Clip().Bounds() != image.Rect(20, 20, 30, 30) {
		t.Errorf("Bounds = %v", s.Clip().Bounds())
	}

	// Restore pops the materialized entry and recovers the saved state.
	s.Restore()
	if s.Depth() != 1 {
		t.Errorf("Depth after restore = %d", s.Depth())
	}
	if !s.IsWideOpen() {
		t.Errorf("restored clip = %v", s.Clip().Bounds())
	}
}

func TestClipStackNestedScopes(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)

	s.ClipRect(XYWH(0, 0, 80, 80), Identity(), OpIntersect, false)
	s.Save()
	s.ClipRect(XYWH(10, 10, 80, 80), Identity(), OpIntersect, false)
	s.Save()
	s.ClipRect(XYWH(20, 20, 80, 80), Identity(), OpIntersect, false)

	if s.Clip().Bounds() != image.Rect(20, 20, 80, 80) {
		t.Errorf("inner Bounds = %v", s.Clip().Bounds())
	}
	s.Restore()
	if s.Clip().Bounds() != image.Rect(10, 10, 80, 80) {
		t.Errorf("middle Bounds = %v", s.Clip().Bounds())
	}
	s.Restore()
	if s.Clip().Bounds() != image.Rect(0, 0, 80, 80) {
		t.Errorf("outer Bounds = %v", s.Clip().Bounds())
	}
}

func TestClipStackMixedDeferredAndMaterialized(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)

	s.Save() // deferred
	s.Save() // deferred
	s.ClipRect(XYWH(10, 10, 40, 40), Identity(), OpIntersect, false)
	// One deferred save was consumed by the copy-on-write; one remains.
	if s.Depth() != 2 {
		t.Fatalf("Depth = %d", s.Depth())
	}

	s.Restore() // pops the materialized entry
	if s.Depth() != 1 {
		t.Errorf("Depth after first restore = %d", s.Depth())
	}
	if !s.IsWideOpen() {
		t.Errorf("clip after first restore = %v", s.Clip().Bounds())
	}
	s.Restore() // consumes the remaining deferred save
	if s.Depth() != 1 {
		t.Errorf("Depth after second restore = %d", s.Depth())
	}
}

func TestClipStackUnderflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on restore past the bottom entry")
		}
	}()
	s := NewClipStack(image.Rect(0, 0, 10, 10), 0)
	s.Restore()
}

func TestClipStackReset(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)
	s.Save()
	s.ClipRect(XYWH(10, 10, 20, 20), Identity(), OpIntersect, true)
	s.Save()

	s.Reset(image.Rect(0, 0, 64, 64))
	if s.Depth() != 1 {
		t.Errorf("Depth after reset = %d", s.Depth())
	}
	cl := s.Clip()
	if cl.Bounds() != image.Rect(0, 0, 64, 64) || !cl.IsRect() || cl.IsAA() {
		t.Errorf("clip after reset = %+v", cl)
	}
	if !s.IsWideOpen() {
		t.Error("reset clip should be wide open")
	}
	// The pending deferred saves are gone too.
	s.Save()
	s.Restore()
	if s.Depth() != 1 {
		t.Errorf("Depth = %d", s.Depth())
	}
}

// TestClipStackSteadyStateAllocs verifies the arena: once an entry has
// been materialized and recycled, further save/mutate/restore cycles
// reuse it without allocating.
func TestClipStackSteadyStateAllocs(t *testing.T) {
	s := NewClipStack(image.Rect(0, 0, 100, 100), 0)

	// Warm up the arena to its working depth.
	s.Save()
	s.ClipRect(XYWH(10, 10, 40, 40), Identity(), OpIntersect, false)
	s.Restore()

	allocs := testing.AllocsPerRun(100, func() {
		s.Save()
		s.ClipRect(XYWH(10, 10, 40, 40), Identity(), OpIntersect, false)
		s.Restore()
	})
	if allocs != 0 {
		t.Errorf("steady-state save/clip/restore allocated %v times per run", allocs)
	}

	// Pure save/restore pairs never allocate at all.
	allocs = testing.AllocsPerRun(100, func() {
		s.Save()
		s.Restore()
	})
	if allocs != 0 {
		t.Errorf("deferred save/restore allocated %v times per run", allocs)
	}
}
