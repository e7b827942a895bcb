package cliptrack

import (
	"image"
	"math"
)

// Matrix represents a 2D projective transformation.
// It uses a 3x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//	| G  H  I |
//
// This represents the transformation:
//
//	x' = (A*x + B*y + C) / w
//	y' = (D*x + E*y + F) / w
//	w  =  G*x + H*y + I
//
// For affine transforms G and H are zero and I is one, and the upper two
// rows behave exactly like a conventional 2x3 matrix.
type Matrix struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{
		A: 1, B: 0, C: x,
		D: 0, E: 1, F: y,
		G: 0, H: 0, I: 1,
	}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{
		A: x, B: 0, C: 0,
		D: 0, E: y, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Shear creates a shear matrix.
func Shear(x, y float64) Matrix {
	return Matrix{
		A: 1, B: x, C: 0,
		D: y, E: 1, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Multiply multiplies two matrices (m * other). The combined transform
// applies other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D + m.C*other.G,
		B: m.A*other.B + m.B*other.E + m.C*other.H,
		C: m.A*other.C + m.B*other.F + m.C*other.I,
		D: m.D*other.A + m.E*other.D + m.F*other.G,
		E: m.D*other.B + m.E*other.E + m.F*other.H,
		F: m.D*other.C + m.E*other.F + m.F*other.I,
		G: m.G*other.A + m.H*other.D + m.I*other.G,
		H: m.G*other.B + m.H*other.E + m.I*other.H,
		I: m.G*other.C + m.H*other.F + m.I*other.I,
	}
}

// PreTranslate returns the matrix with a translation applied before m.
func (m Matrix) PreTranslate(x, y float64) Matrix {
	return m.Multiply(Translate(x, y))
}

// PostTranslate returns the matrix with a translation applied after m.
func (m Matrix) PostTranslate(x, y float64) Matrix {
	return Translate(x, y).Multiply(m)
}

// TransformPoint applies the transformation to a point, including the
// perspective division.
func (m Matrix) TransformPoint(p Point) Point {
	x := m.A*p.X + m.B*p.Y + m.C
	y := m.D*p.X + m.E*p.Y + m.F
	if m.hasPerspectiveRow() {
		w := 1.0 / (m.G*p.X + m.H*p.Y + m.I)
		x *= w
		y *= w
	}
	return Point{X: x, Y: y}
}

// Determinant returns the determinant of the full 3x3 matrix.
func (m Matrix) Determinant() float64 {
	return m.A*(m.E*m.I-m.F*m.H) -
		m.B*(m.D*m.I-m.F*m.G) +
		m.C*(m.D*m.H-m.E*m.G)
}

// Invert returns the inverse transformation. The second return value is
// false if the matrix is singular, in which case the returned matrix is
// unspecified.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if det == 0 || math.IsInf(det, 0) || math.IsNaN(det) {
		return Matrix{}, false
	}
	inv := 1.0 / det
	return Matrix{
		A: (m.E*m.I - m.F*m.H) * inv,
		B: (m.C*m.H - m.B*m.I) * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: (m.F*m.G - m.D*m.I) * inv,
		E: (m.A*m.I - m.C*m.G) * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
		G: (m.D*m.H - m.E*m.G) * inv,
		H: (m.B*m.G - m.A*m.H) * inv,
		I: (m.A*m.E - m.B*m.D) * inv,
	}, true
}

// NormalizePerspective scales the matrix so that the bottom-right element
// is one, when it is neither one nor zero. Normalizing keeps repeated
// concatenations of perspective matrices numerically stable without
// changing the transform they represent.
func (m Matrix) NormalizePerspective() Matrix {
	if m.I != 1 && m.I != 0 {
		inv := 1.0 / m.I
		m.A *= inv
		m.B *= inv
		m.C *= inv
		m.D *= inv
		m.E *= inv
		m.F *= inv
		m.G *= inv
		m.H *= inv
		m.I = 1
	}
	return m
}

func (m Matrix) hasPerspectiveRow() bool {
	return m.G != 0 || m.H != 0 || m.I != 1
}

// HasPerspective reports whether the matrix contains perspective elements.
func (m Matrix) HasPerspective() bool {
	return m.hasPerspectiveRow()
}

// IsIdentity reports whether the matrix is the identity transform.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether the matrix is identity or a pure
// translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1 && !m.hasPerspectiveRow()
}

// IsPixelAligned reports whether the matrix is a pure translation by whole
// pixel amounts. Such a transform maps one pixel grid onto another exactly,
// so a nearest-pixel copy is valid.
func (m Matrix) IsPixelAligned() bool {
	return m.IsTranslation() &&
		m.C == math.Round(m.C) && m.F == math.Round(m.F)
}

// IsScaleTranslate reports whether the matrix at most scales and
// translates, with no rotation, shear or perspective.
func (m Matrix) IsScaleTranslate() bool {
	return m.B == 0 && m.D == 0 && !m.hasPerspectiveRow()
}

// IsAxisAligned reports whether the matrix maps every axis-aligned
// rectangle to another axis-aligned rectangle. True for any combination of
// axis-aligned scale, mirror, quarter-turn rotation and translation.
func (m Matrix) IsAxisAligned() bool {
	if m.hasPerspectiveRow() {
		return false
	}
	return (m.B == 0 && m.D == 0) || (m.A == 0 && m.E == 0)
}

// mapCorners maps the four corners of src, applying the perspective
// division when needed, and returns the bounding values.
func (m Matrix) mapCorners(src Rect) (minX, minY, maxX, maxY float64) {
	x1 := m.A*src.Left + m.B*src.Top + m.C
	y1 := m.D*src.Left + m.E*src.Top + m.F
	x2 := m.A*src.Right + m.B*src.Top + m.C
	y2 := m.D*src.Right + m.E*src.Top + m.F
	x3 := m.A*src.Left + m.B*src.Bottom + m.C
	y3 := m.D*src.Left + m.E*src.Bottom + m.F
	x4 := m.A*src.Right + m.B*src.Bottom + m.C
	y4 := m.D*src.Right + m.E*src.Bottom + m.F
	if m.hasPerspectiveRow() {
		w := 1.0 / (m.G*src.Left + m.H*src.Top + m.I)
		x1 *= w
		y1 *= w
		w = 1.0 / (m.G*src.Right + m.H*src.Top + m.I)
		x2 *= w
		y2 *= w
		w = 1.0 / (m.G*src.Left + m.H*src.Bottom + m.I)
		x3 *= w
		y3 *= w
		w = 1.0 / (m.G*src.Right + m.H*src.Bottom + m.I)
		x4 *= w
		y4 *= w
	}
	minX = math.Min(math.Min(x1, x2), math.Min(x3, x4))
	minY = math.Min(math.Min(y1, y2), math.Min(y3, y4))
	maxX = math.Max(math.Max(x1, x2), math.Max(x3, x4))
	maxY = math.Max(math.Max(y1, y2), math.Max(y3, y4))
	return
}

// MapRect returns the bounds of the four mapped corners of src. For an
// axis-aligned matrix the result is the exact image of src; otherwise it
// is the tightest axis-aligned bound of the mapped quad.
func (m Matrix) MapRect(src Rect) Rect {
	if m.IsTranslation() {
		return src.Offset(m.C, m.F)
	}
	if m.IsScaleTranslate() {
		return LTRB(
			src.Left*m.A+m.C, src.Top*m.E+m.F,
			src.Right*m.A+m.C, src.Bottom*m.E+m.F,
		).Sort()
	}
	minX, minY, maxX, maxY := m.mapCorners(src)
	return LTRB(minX, minY, maxX, maxY)
}

// MapRectRound maps src and rounds each edge of the bound to the nearest
// pixel boundary.
func (m Matrix) MapRectRound(src Rect) image.Rectangle {
	return m.MapRect(src).Round()
}

// MapRectOut maps src and returns the smallest integer rectangle that
// encloses the mapped bound. Use this whenever the result must remain a
// superset of the true image, such as for antialiased edges.
func (m Matrix) MapRectOut(src Rect) image.Rectangle {
	return m.MapRect(src).RoundOut()
}
