package cliptrack

import (
	"fmt"
	"image"
)

// ConservativeClip tracks a single rectangular bound that is guaranteed to
// contain the true clip region, no matter how complex that region becomes.
// Tracking a superset keeps every clip operation O(1) while still letting
// callers cull draws that fall entirely outside the bound.
//
// isRect is true only while the bound is known to be exactly the clip
// region, not an over-approximation. isAA accumulates whether any
// contributing operation requested antialiased edges.
type ConservativeClip struct {
	bounds image.Rectangle
	isRect bool
	isAA   bool
}

// Bounds returns the conservative device-space bound. The true clip region
// is always a subset of it.
func (c ConservativeClip) Bounds() image.Rectangle { return c.bounds }

// IsRect reports whether the bound is exactly the clip region.
func (c ConservativeClip) IsRect() bool { return c.isRect }

// IsAA reports whether any contributing clip operation requested edge
// antialiasing.
func (c ConservativeClip) IsAA() bool { return c.isAA }

// IsEmpty reports whether the bound encloses no pixels.
func (c ConservativeClip) IsEmpty() bool { return c.bounds.Empty() }

// SetEmpty resets the clip to the definite empty state.
func (c *ConservativeClip) SetEmpty() {
	c.bounds = image.Rectangle{}
	c.isRect = true
	c.isAA = false
}

// SetRect resets the clip to exactly r.
func (c *ConservativeClip) SetRect(r image.Rectangle) {
	c.bounds = r.Canon()
	c.isRect = true
	c.isAA = false
}

// applyOpParams folds one clip request into the flag state. It runs for
// every clip-modifying call, including ones whose geometry degenerates to
// a no-op, so the flags reflect the union of all requests ever applied.
//
// isRect survives only an axis-aligned intersect. OpDifference is excluded
// from the isRect update: its geometry leaves bounds untouched (see
// opDevice), and the tracked rectangle still equals the bound, so the
// exactness claim is kept. Whether difference should clear the flag anyway
// is a known imprecision that is deliberately preserved; do not "fix" it
// here without auditing every isRect consumer.
func (c *ConservativeClip) applyOpParams(op Op, aa, axisAlignedRect bool) {
	c.isAA = c.isAA || aa
	if op != OpDifference {
		c.isRect = c.isRect && (op == OpIntersect && axisAlignedRect)
	}
}

// OpRect combines a local-space rectangle into the clip. The rectangle is
// mapped into device space by localToDevice: outward to the enclosing
// pixel grid when the edge is antialiased or when a degraded operation
// rides a transform that does not preserve axis alignment, and to the
// nearest pixel boundary otherwise.
//
// The legacy operations degrade conservatively: difference leaves the
// bound unchanged unless the operand swallows it whole (a superset stands
// in safely, since a true difference can only shrink the region), xor
// degrades to union (A⊕B ⊆ A∪B), and reverse difference degrades to
// replace (the result can only be a subset of the operand). An undefined
// op is a programming error and panics.
func (c *ConservativeClip) OpRect(local Rect, localToDevice Matrix, op Op, aa bool) {
	c.applyOpParams(op, aa, localToDevice.IsAxisAligned())

	degraded := false
	switch op {
	case OpIntersect, OpUnion, OpReplace:
	case OpDifference:
		// The covering and disjoint cases resolve in opDevice; the op
		// itself is not rewritten.
		degraded = true
	case OpReverseDifference:
		op = OpReplace
		degraded = true
	case OpXor:
		op = OpUnion
		degraded = true
	default:
		panic(fmt.Sprintf("cliptrack: invalid clip op %v", op))
	}

	var dev image.Rectangle
	if aa || (degraded && !localToDevice.IsAxisAligned()) {
		dev = localToDevice.MapRectOut(local)
	} else {
		dev = localToDevice.MapRectRound(local)
	}
	c.opDevice(dev, op)
}

// opDevice combines a device-space rectangle into the bound.
func (c *ConservativeClip) opDevice(dev image.Rectangle, op Op) {
	switch op {
	case OpIntersect:
		c.bounds = c.bounds.Intersect(dev)
	case OpUnion:
		c.bounds = c.bounds.Union(dev)
	case OpReplace:
		c.bounds = dev
	case OpDifference:
		if c.bounds.In(dev) {
			c.bounds = image.Rectangle{}
		}
		// Disjoint or partial overlap leaves the bound unchanged.
	case OpXor:
		c.bounds = c.bounds.Union(dev)
	case OpReverseDifference:
		c.bounds = dev
	default:
		panic(fmt.Sprintf("cliptrack: invalid clip op %v", op))
	}
}

// Replace maps a global-space rectangle into device space, clamps it to
// the device's own pixel bounds and installs it as the new clip. This is
// the top-level clip restriction used when handing a device a fresh
// drawing area; it does not follow combinator semantics.
func (c *ConservativeClip) Replace(global Rect, globalToDevice Matrix, deviceBounds image.Rectangle) {
	dev := globalToDevice.MapRectRound(global)
	c.SetRect(dev.Intersect(deviceBounds))
}
