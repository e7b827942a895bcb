package cliptrack

import (
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with float64 edges. It is the geometry
// currency for local and global space; device pixel space uses the integer
// image.Rectangle.
//
// A Rect is canonical when Left <= Right and Top <= Bottom. A rect with
// zero or negative extent in either axis is empty; the zero Rect is the
// canonical empty rect.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// LTRB returns the rectangle with the given edges.
func LTRB(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// XYWH returns the rectangle at (x, y) with the given width and height.
func XYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// FromIRect converts an integer device-space rectangle.
func FromIRect(r image.Rectangle) Rect {
	return Rect{
		Left:   float64(r.Min.X),
		Top:    float64(r.Min.Y),
		Right:  float64(r.Max.X),
		Bottom: float64(r.Max.Y),
	}
}

// Width returns the horizontal extent. Negative for non-canonical rects.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent. Negative for non-canonical rects.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// IsFinite reports whether all four edges are finite numbers.
// A rect that went through a degenerate transform can pick up infinities
// or NaNs; such a rect must not participate in culling decisions.
func (r Rect) IsFinite() bool {
	s := 0 * r.Left * r.Top * r.Right * r.Bottom
	return s == s
}

// Sort returns the canonical form of the rectangle, swapping edges so that
// Left <= Right and Top <= Bottom.
func (r Rect) Sort() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Intersect returns the intersection of two rectangles. If they do not
// overlap, the zero (empty) rect is returned.
func (r Rect) Intersect(o Rect) Rect {
	if r.Left < o.Left {
		r.Left = o.Left
	}
	if r.Top < o.Top {
		r.Top = o.Top
	}
	if r.Right > o.Right {
		r.Right = o.Right
	}
	if r.Bottom > o.Bottom {
		r.Bottom = o.Bottom
	}
	if r.IsEmpty() {
		return Rect{}
	}
	return r
}

// Intersects reports whether the two rectangles overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right &&
		r.Top < o.Bottom && o.Top < r.Bottom
}

// Union returns the smallest rectangle containing both operands. Empty
// operands do not contribute.
func (r Rect) Union(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	if r.Left > o.Left {
		r.Left = o.Left
	}
	if r.Top > o.Top {
		r.Top = o.Top
	}
	if r.Right < o.Right {
		r.Right = o.Right
	}
	if r.Bottom < o.Bottom {
		r.Bottom = o.Bottom
	}
	return r
}

// Contains reports whether o is entirely inside r. An empty o is contained
// by anything.
func (r Rect) Contains(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return r.Left <= o.Left && r.Top <= o.Top &&
		r.Right >= o.Right && r.Bottom >= o.Bottom
}

// Offset returns the rectangle translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// Outset grows the rectangle by d on every side. Negative d shrinks it.
func (r Rect) Outset(d float64) Rect {
	return Rect{r.Left - d, r.Top - d, r.Right + d, r.Bottom + d}
}

// Round returns the integer rectangle with each edge rounded to the
// nearest pixel boundary.
func (r Rect) Round() image.Rectangle {
	return image.Rect(
		int(math.Round(r.Left)), int(math.Round(r.Top)),
		int(math.Round(r.Right)), int(math.Round(r.Bottom)),
	)
}

// RoundOut returns the smallest integer rectangle enclosing r.
func (r Rect) RoundOut() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Left)), int(math.Floor(r.Top)),
		int(math.Ceil(r.Right)), int(math.Ceil(r.Bottom)),
	)
}
