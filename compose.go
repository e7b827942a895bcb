package cliptrack

import (
	"errors"
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ErrPerspectiveCompose is returned when two surfaces cannot be composed
// because their relative placement contains perspective. Compositing only
// resamples affine placements; a perspective placement must go through a
// full rasterizer.
var ErrPerspectiveCompose = errors.New("cliptrack: perspective compose not supported")

// ImageDevice is a pixel-backed surface: the clip/transform tracking of a
// Device plus an RGBA buffer covering its bounds.
type ImageDevice struct {
	Device
	img *image.RGBA
}

// NewImageDevice creates a pixel-backed device covering width x height
// pixels.
func NewImageDevice(width, height int, opts ...DeviceOption) *ImageDevice {
	d := NewDevice(width, height, opts...)
	return &ImageDevice{
		Device: *d,
		img:    image.NewRGBA(d.Bounds()),
	}
}

// Image returns the backing pixel buffer.
func (d *ImageDevice) Image() *image.RGBA { return d.img }

// Compose draws src's pixels into dst, honoring dst's conservative clip
// and the devices' relative placement in global space.
//
// When the relative transform is a whole-pixel translation, pixels are
// copied directly on the nearest grid. Any other affine placement is
// resampled with bilinear filtering. Draws whose mapped bounds cannot
// intersect dst's clip bound are skipped entirely.
func Compose(dst, src *ImageDevice) error {
	rel := src.RelativeTransform(&dst.Device)
	if rel.HasPerspective() {
		return ErrPerspectiveCompose
	}

	target := dst.ClipBounds().Intersect(dst.Bounds())
	if target.Empty() {
		return nil
	}
	mapped := rel.MapRectOut(FromIRect(src.Bounds()))
	if !mapped.Overlaps(target) {
		return nil
	}

	if rel.IsPixelAligned() {
		off := image.Pt(int(rel.C), int(rel.F))
		r := src.Bounds().Add(off).Intersect(target)
		if r.Empty() {
			return nil
		}
		draw.Draw(dst.img, r, src.img, r.Min.Sub(off), draw.Over)
		return nil
	}

	// SubImage keeps absolute coordinates, so the transform needs no
	// adjustment for the clip.
	clipped := dst.img.SubImage(target).(*image.RGBA)
	xdraw.BiLinear.Transform(clipped,
		f64.Aff3{rel.A, rel.B, rel.C, rel.D, rel.E, rel.F},
		src.img, src.img.Bounds(), xdraw.Over, nil)
	return nil
}
