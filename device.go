package cliptrack

import (
	"errors"
	"fmt"
	"image"
)

// ErrSingularTransform is returned when a coordinate space cannot be
// established because the supplied matrix has no inverse.
var ErrSingularTransform = errors.New("cliptrack: transform is not invertible")

// Device tracks the clip and coordinate-frame state of one drawing
// surface. It owns a deferred clip stack, a marker stack and the pair of
// mutually inverse matrices relating the surface's pixel grid to the
// shared global space. The transform pair is re-derived together whenever
// the placement changes and is never allowed to drift.
//
// Device carries no pixels of its own. A virtual surface uses it as-is to
// track state for culling; pixel- and GPU-backed surfaces compose it (see
// ImageDevice and TextureDevice).
//
// A Device is mutated by exactly one logical thread of control at a time;
// there is no internal locking.
type Device struct {
	bounds         image.Rectangle
	deviceToGlobal Matrix
	globalToDevice Matrix
	localToDevice  Matrix

	clip    *ClipStack
	markers *MarkerStack

	// Cull bound in device space, outset by one pixel when the clip is
	// antialiased. Refreshed on every clip mutation and restore.
	quickRejectBounds Rect

	saveCount int
}

// NewDevice creates a device covering width x height pixels, placed at the
// global origin with identity transforms and a wide-open clip.
func NewDevice(width, height int, opts ...DeviceOption) *Device {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	d := &Device{
		bounds:         image.Rect(0, 0, width, height),
		deviceToGlobal: Identity(),
		globalToDevice: Identity(),
		localToDevice:  Identity(),
		saveCount:      1,
	}
	d.clip = NewClipStack(d.bounds, o.clipCapacity)
	d.markers = NewMarkerStack(o.markerCapacity)
	d.updateQuickRejectBounds()
	return d
}

// Bounds returns the device's own pixel bounds.
func (d *Device) Bounds() image.Rectangle { return d.bounds }

// Width returns the device width in pixels.
func (d *Device) Width() int { return d.bounds.Dx() }

// Height returns the device height in pixels.
func (d *Device) Height() int { return d.bounds.Dy() }

// SaveCount returns the number of open save scopes, including the
// implicit root scope. A freshly created device reports 1.
func (d *Device) SaveCount() int { return d.saveCount }

// Save opens a new save scope. Saving is O(1): the clip stack only
// materializes state when a clip mutation follows.
func (d *Device) Save() {
	d.saveCount++
	d.clip.Save()
}

// Restore exits the current save scope, dropping any markers recorded in
// it and rolling the clip back to the state at the matching Save. Calling
// Restore with no open scope is a programming error and panics.
func (d *Device) Restore() {
	if d.saveCount <= 1 {
		panic("cliptrack: restore without matching save")
	}
	d.markers.Restore(d.saveCount)
	d.saveCount--
	d.clip.Restore()
	d.updateQuickRejectBounds()
}

// RestoreToCount restores until the save count reaches count. Passing the
// value returned by an earlier SaveCount exits every scope opened since.
// A count below 1 is a programming error and panics.
func (d *Device) RestoreToCount(count int) {
	if count < 1 {
		panic(fmt.Sprintf("cliptrack: restore to count %d", count))
	}
	for d.saveCount > count {
		d.Restore()
	}
}

// ClipRect combines a local-space rectangle into the current clip using
// the given operation. The rectangle is transformed by the current
// local-to-device matrix.
func (d *Device) ClipRect(r Rect, op Op, aa bool) {
	d.clip.ClipRect(r, d.localToDevice, op, aa)
	d.updateQuickRejectBounds()
}

// ReplaceClip maps a global-space rectangle onto the device, clamps it to
// the device bounds and installs it as the clip, discarding the previous
// clip state of the current scope.
func (d *Device) ReplaceClip(globalRect Rect) {
	d.clip.Replace(globalRect, d.globalToDevice)
	d.updateQuickRejectBounds()
}

// ResetClip drops the whole clip stack back to a single wide-open entry.
func (d *Device) ResetClip() {
	d.clip.Reset(d.bounds)
	d.updateQuickRejectBounds()
}

// ClipBounds returns the conservative device-space clip bound. The true
// clip region is always a subset of it.
func (d *Device) ClipBounds() image.Rectangle {
	return d.clip.Clip().Bounds()
}

// ClipIsAA reports whether any operation contributing to the current clip
// requested antialiased edges.
func (d *Device) ClipIsAA() bool {
	return d.clip.Clip().IsAA()
}

// ClipIsRect reports whether the current clip is known to be exactly its
// bound.
func (d *Device) ClipIsRect() bool {
	return d.clip.Clip().IsRect()
}

// ClipIsEmpty reports whether the current clip excludes every pixel.
func (d *Device) ClipIsEmpty() bool {
	return d.clip.Clip().IsEmpty()
}

// ClipIsWideOpen reports whether the current clip is exactly the full
// device bounds.
func (d *Device) ClipIsWideOpen() bool {
	return d.clip.IsWideOpen()
}

// ClipDepth returns the number of materialized clip entries; deferred
// saves do not count. Primarily useful for tests and diagnostics.
func (d *Device) ClipDepth() int {
	return d.clip.Depth()
}

// QuickReject reports whether a local-space rectangle, after transforming
// to device space, lies entirely outside the conservative clip bound.
// A true result means the draw cannot produce visible pixels and may be
// skipped; a false result is no guarantee of visibility.
func (d *Device) QuickReject(r Rect) bool {
	dev := d.localToDevice.MapRect(r)
	return !dev.IsFinite() || !dev.Intersects(d.quickRejectBounds)
}

// LocalClipBounds returns the clip bound mapped back into local
// coordinates, outset by one device pixel to cover antialiased edges and
// rounding of mapped draw bounds. The second return value is false when
// the clip is empty or the local-to-device matrix cannot be inverted.
func (d *Device) LocalClipBounds() (Rect, bool) {
	cl := d.clip.Clip()
	if cl.IsEmpty() {
		return Rect{}, false
	}
	inv, ok := d.localToDevice.Invert()
	if !ok {
		return Rect{}, false
	}
	local := inv.MapRect(FromIRect(cl.Bounds()).Outset(1))
	return local, !local.IsEmpty()
}

func (d *Device) updateQuickRejectBounds() {
	cl := d.clip.Clip()
	qr := FromIRect(cl.Bounds())
	// One pixel of slop covers both antialiased edges and rounding of
	// mapped draw bounds.
	d.quickRejectBounds = qr.Outset(1)
	if cl.IsEmpty() {
		d.quickRejectBounds = Rect{}
	}
}

// SetCoordinateSpace establishes the device's placement in global space.
// Nil matrices mean identity. globalToDevice is recomputed as the exact
// inverse of the normalized deviceToGlobal; a singular deviceToGlobal
// cannot place a device and returns ErrSingularTransform.
//
// A non-zero origin positions the device's buffer inside the coordinate
// space the matrices were built for: deviceToGlobal is pre-translated by
// the origin, and both globalToDevice and the local-to-device transform
// are post-translated by the negated origin, keeping all three consistent.
func (d *Device) SetCoordinateSpace(deviceToGlobal, localToDevice *Matrix, originX, originY int) error {
	d2g := Identity()
	if deviceToGlobal != nil {
		d2g = deviceToGlobal.NormalizePerspective()
	}
	g2d, ok := d2g.Invert()
	if !ok {
		return fmt.Errorf("%w: deviceToGlobal %+v", ErrSingularTransform, d2g)
	}
	l2d := Identity()
	if localToDevice != nil {
		l2d = localToDevice.NormalizePerspective()
	}
	if originX != 0 || originY != 0 {
		ox, oy := float64(originX), float64(originY)
		d2g = d2g.PreTranslate(ox, oy)
		g2d = g2d.PostTranslate(-ox, -oy)
		l2d = l2d.PostTranslate(-ox, -oy)
	}
	d.deviceToGlobal = d2g
	d.globalToDevice = g2d
	d.localToDevice = l2d
	return nil
}

// SetLocalToDevice replaces the transform applied to local geometry. The
// owning drawing context updates this as its matrix stack changes.
func (d *Device) SetLocalToDevice(m Matrix) {
	d.localToDevice = m.NormalizePerspective()
}

// LocalToDevice returns the transform currently applied to local geometry.
func (d *Device) LocalToDevice() Matrix { return d.localToDevice }

// DeviceToGlobal returns the transform from this device's pixel grid to
// global space.
func (d *Device) DeviceToGlobal() Matrix { return d.deviceToGlobal }

// GlobalToDevice returns the transform from global space to this device's
// pixel grid. It is always the exact inverse of DeviceToGlobal.
func (d *Device) GlobalToDevice() Matrix { return d.globalToDevice }

// IsPixelAlignedToGlobal reports whether the device's pixel grid lies on
// the global grid at a whole-pixel offset. Compositing uses this to decide
// whether a cheap nearest-pixel copy is valid or a filtered resample is
// required.
func (d *Device) IsPixelAlignedToGlobal() bool {
	return d.deviceToGlobal.IsPixelAligned()
}

// RelativeTransform returns the transform mapping this device's pixels
// directly into other's pixel grid, composing this device's deviceToGlobal
// with other's globalToDevice.
func (d *Device) RelativeTransform(other *Device) Matrix {
	return other.globalToDevice.Multiply(d.deviceToGlobal)
}

// SetMarker names the current local-to-device transform so that it can be
// recovered later, also from within deeper save scopes. Within the current
// save scope, setting the same name again replaces the previous value;
// markers vanish when their scope is restored. Returns false if the name
// is empty or contains characters other than letters, digits and
// underscores.
func (d *Device) SetMarker(name string) bool {
	if !validMarkerName(name) {
		return false
	}
	d.markers.Set(MarkerID(name), d.localToDevice, d.saveCount)
	return true
}

// FindMarker returns the most recently recorded transform under name.
func (d *Device) FindMarker(name string) (Matrix, bool) {
	if !validMarkerName(name) {
		return Matrix{}, false
	}
	return d.markers.Find(MarkerID(name))
}

// FindMarkerInverse returns the inverse of the most recently recorded
// transform under name.
func (d *Device) FindMarkerInverse(name string) (Matrix, bool) {
	if !validMarkerName(name) {
		return Matrix{}, false
	}
	return d.markers.FindInverse(MarkerID(name))
}
