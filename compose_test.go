package cliptrack

import (
	"errors"
	"image/color"
	"testing"
)

func fillDevice(d *ImageDevice, c color.RGBA) {
	b := d.Image().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.Image().SetRGBA(x, y, c)
		}
	}
}

func TestComposeAligned(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}

	src := NewImageDevice(4, 4)
	fillDevice(src, red)
	dst := NewImageDevice(8, 8)

	d2g := Translate(2, 3)
	if err := src.SetCoordinateSpace(&d2g, nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := dst.Image().RGBAAt(2, 3); got != red {
		t.Errorf("pixel (2,3) = %v, want %v", got, red)
	}
	if got := dst.Image().RGBAAt(5, 6); got != red {
		t.Errorf("pixel (5,6) = %v, want %v", got, red)
	}
	if got := dst.Image().RGBAAt(1, 3); got.A != 0 {
		t.Errorf("pixel (1,3) = %v, want untouched", got)
	}
	if got := dst.Image().RGBAAt(6, 3); got.A != 0 {
		t.Errorf("pixel (6,3) = %v, want untouched", got)
	}
}

func TestComposeHonorsClip(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}

	src := NewImageDevice(8, 8)
	fillDevice(src, red)
	dst := NewImageDevice(8, 8)
	dst.ClipRect(XYWH(2, 2, 3, 3), OpIntersect, false)

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := dst.Image().RGBAAt(3, 3); got != red {
		t.Errorf("pixel inside clip = %v, want %v", got, red)
	}
	if got := dst.Image().RGBAAt(0, 0); got.A != 0 {
		t.Errorf("pixel outside clip = %v, want untouched", got)
	}
	if got := dst.Image().RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel outside clip = %v, want untouched", got)
	}
}

func TestComposeDisjointSkips(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}

	src := NewImageDevice(4, 4)
	fillDevice(src, red)
	dst := NewImageDevice(8, 8)

	d2g := Translate(100, 100)
	if err := src.SetCoordinateSpace(&d2g, nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := dst.Image().RGBAAt(x, y); got.A != 0 {
				t.Fatalf("pixel (%d,%d) = %v, want untouched", x, y, got)
			}
		}
	}
}

func TestComposeResampled(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}

	src := NewImageDevice(4, 4)
	fillDevice(src, red)
	dst := NewImageDevice(8, 8)

	d2g := Scale(2, 2)
	if err := src.SetCoordinateSpace(&d2g, nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// The interior of the scaled-up source is solid red; edges may blend.
	if got := dst.Image().RGBAAt(4, 4); got != red {
		t.Errorf("interior pixel = %v, want %v", got, red)
	}
	if got := dst.Image().RGBAAt(2, 6); got != red {
		t.Errorf("interior pixel = %v, want %v", got, red)
	}
}

func TestComposePerspectiveRejected(t *testing.T) {
	src := NewImageDevice(4, 4)
	dst := NewImageDevice(8, 8)

	persp := Identity()
	persp.G = 0.001
	if err := src.SetCoordinateSpace(&persp, nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := Compose(dst, src); !errors.Is(err, ErrPerspectiveCompose) {
		t.Errorf("Compose = %v, want ErrPerspectiveCompose", err)
	}
}

func TestComposeEmptyClipSkips(t *testing.T) {
	src := NewImageDevice(4, 4)
	fillDevice(src, color.RGBA{255, 0, 0, 255})
	dst := NewImageDevice(8, 8)
	dst.ClipRect(XYWH(100, 100, 5, 5), OpIntersect, false)

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got := dst.Image().RGBAAt(2, 2); got.A != 0 {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func TestComposeAlignedRoundTrip(t *testing.T) {
	// Placements built from both devices' spaces still reduce to a
	// whole-pixel copy when their difference is integral.
	red := color.RGBA{255, 0, 0, 255}

	src := NewImageDevice(4, 4)
	fillDevice(src, red)
	dst := NewImageDevice(8, 8)

	srcToGlobal := Translate(10, 10)
	dstToGlobal := Translate(8, 8)
	if err := src.SetCoordinateSpace(&srcToGlobal, nil, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := dst.SetCoordinateSpace(&dstToGlobal, nil, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := Compose(dst, src); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// src (0,0) sits at global (10,10), which is dst pixel (2,2).
	if got := dst.Image().RGBAAt(2, 2); got != red {
		t.Errorf("pixel (2,2) = %v, want %v", got, red)
	}
	if got := dst.Image().RGBAAt(1, 1); got.A != 0 {
		t.Errorf("pixel (1,1) = %v, want untouched", got)
	}
}

func TestComposePerspectiveIdentityNormalized(t *testing.T) {
	// A uniformly scaled bottom row normalizes away and composes fine.
	src := NewImageDevice(4, 4)
	fillDevice(src, color.RGBA{0, 255, 0, 255})
	dst := NewImageDevice(8, 8)

	m := Identity()
	m.A, m.E, m.I = 2, 2, 2
	if err := src.SetCoordinateSpace(&m, nil, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := Compose(dst, src); err != nil {
		t.Errorf("Compose = %v, want nil", err)
	}
}
