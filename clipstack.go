package cliptrack

import "image"

// clipRec is one entry of the deferred clip stack. deferredSaveCount
// counts how many save() calls have been folded into this entry without a
// clip mutation following them; those saves never materialize an entry of
// their own.
type clipRec struct {
	clip              ConservativeClip
	deferredSaveCount int
}

// ClipStack is a save/restore-aware stack of conservative clip states.
//
// Saves are deferred: Save only bumps a counter on the top entry, and a
// new entry is materialized (copy-on-write) the first time a clip mutation
// follows. Restores that match a deferred save just drop the counter.
// Save/restore pairs with no intervening clip mutation are therefore O(1)
// and allocation-free, which is the common case in UI draw trees.
//
// Popped entries stay in the backing array and are reused in place, so a
// stack in steady state produces no garbage.
//
// A ClipStack is owned by exactly one drawing context and is not safe for
// concurrent use.
type ClipStack struct {
	deviceBounds image.Rectangle
	recs         []clipRec
}

// NewClipStack creates a clip stack whose bottom entry is the full device
// bounds. capacity pre-sizes the entry arena; values below 1 fall back to
// a small default.
func NewClipStack(deviceBounds image.Rectangle, capacity int) *ClipStack {
	if capacity < 1 {
		capacity = 8
	}
	s := &ClipStack{
		deviceBounds: deviceBounds.Canon(),
		recs:         make([]clipRec, 1, capacity),
	}
	s.recs[0].clip.SetRect(s.deviceBounds)
	return s
}

func (s *ClipStack) top() *clipRec {
	return &s.recs[len(s.recs)-1]
}

// Save records a new clip scope. No entry is allocated until a clip
// mutation follows.
func (s *ClipStack) Save() {
	s.top().deferredSaveCount++
}

// Restore exits the current clip scope. If the matching save never
// produced a clip mutation, only the deferral counter is dropped;
// otherwise the top entry is popped and recycled. Restoring past the
// bottom entry is a programming error and panics.
func (s *ClipStack) Restore() {
	t := s.top()
	if t.deferredSaveCount > 0 {
		t.deferredSaveCount--
		return
	}
	if len(s.recs) == 1 {
		panic("cliptrack: clip stack underflow")
	}
	// The popped entry stays in the arena for reuse.
	s.recs = s.recs[:len(s.recs)-1]
}

// writable returns the clip state a mutation may modify, materializing the
// copy-on-write entry for any pending deferred save first.
func (s *ClipStack) writable() *ConservativeClip {
	t := s.top()
	if t.deferredSaveCount > 0 {
		t.deferredSaveCount--
		n := len(s.recs)
		if n < cap(s.recs) {
			// Reuse the recycled entry in place.
			s.recs = s.recs[:n+1]
		} else {
			s.recs = append(s.recs, clipRec{})
		}
		s.recs[n] = clipRec{clip: s.recs[n-1].clip}
	}
	return &s.top().clip
}

// ClipRect combines a local-space rectangle into the current clip.
func (s *ClipStack) ClipRect(local Rect, localToDevice Matrix, op Op, aa bool) {
	s.writable().OpRect(local, localToDevice, op, aa)
}

// Replace installs a global-space rectangle as the new clip, clamped to
// the device bounds.
func (s *ClipStack) Replace(global Rect, globalToDevice Matrix) {
	s.writable().Replace(global, globalToDevice, s.deviceBounds)
}

// Clip returns the current clip state. The returned value is a copy;
// mutations go through the stack's own operations.
func (s *ClipStack) Clip() ConservativeClip {
	return s.top().clip
}

// IsWideOpen reports whether the clip is exactly the full device bounds,
// i.e. nothing has been clipped away.
func (s *ClipStack) IsWideOpen() bool {
	t := &s.top().clip
	return t.isRect && t.bounds == s.deviceBounds
}

// Depth returns the number of materialized entries. This is primarily
// useful for tests; deferred saves do not show up here.
func (s *ClipStack) Depth() int {
	return len(s.recs)
}

// Reset drops every entry back to the arena and restores the bottom entry
// to the given device bounds with no pending saves.
func (s *ClipStack) Reset(deviceBounds image.Rectangle) {
	s.deviceBounds = deviceBounds.Canon()
	s.recs = s.recs[:1]
	s.recs[0].clip.SetRect(s.deviceBounds)
	s.recs[0].deferredSaveCount = 0
}
