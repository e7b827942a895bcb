package cliptrack

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by TextureDevice operations.
var (
	// ErrClosed is returned when operations are attempted on a closed device.
	ErrClosed = errors.New("cliptrack: texture device is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("cliptrack: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("cliptrack: nil DeviceProvider")

	// ErrInvalidDrawContext is returned when the draw context cannot create
	// textures.
	ErrInvalidDrawContext = errors.New("cliptrack: draw context has no texture creator")

	// ErrUnalignedPresent is returned when a device whose pixel grid is not
	// whole-pixel aligned to global space is presented directly. Compose it
	// into an aligned device first.
	ErrUnalignedPresent = errors.New("cliptrack: device is not pixel aligned to global space")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// pendingTexture is a placeholder for texture creation. The real GPU
// texture can only be created once a draw context with a texture creator
// is available, so Flush hands out this value until RenderTo runs.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}

// TextureDevice is the GPU-backed surface variant: an ImageDevice whose
// pixels are mirrored into a GPU texture on demand. Clip and transform
// tracking happen entirely on the CPU side; the texture is only touched
// when dirty content is flushed or presented.
//
// TextureDevice is NOT safe for concurrent use. Create one per goroutine,
// or use external synchronization.
type TextureDevice struct {
	dev      *ImageDevice
	provider gpucontext.DeviceProvider
	format   gputypes.TextureFormat

	texture     any // Lazy-created texture
	oldTexture  any // Previous texture awaiting deferred destruction
	dirty       image.Rectangle
	sizeChanged bool // Resize pending, texture must be recreated
	closed      bool
}

// NewTextureDevice creates a GPU-backed device. The provider should come
// from the application's GPU context.
//
// Returns an error if dimensions are invalid or provider is nil.
func NewTextureDevice(provider gpucontext.DeviceProvider, width, height int, opts ...DeviceOption) (*TextureDevice, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	t := &TextureDevice{
		dev:      NewImageDevice(width, height, opts...),
		provider: provider,
		format:   provider.SurfaceFormat(),
		dirty:    image.Rect(0, 0, width, height), // First flush uploads everything
	}
	logger().Debug("cliptrack: texture device created",
		"width", width, "height", height, "format", t.format)
	return t, nil
}

// Device returns the CPU-side surface for drawing and clip/transform
// bookkeeping. Returns nil if the device is closed.
func (t *TextureDevice) Device() *ImageDevice {
	if t.closed {
		return nil
	}
	return t.dev
}

// SurfaceFormat returns the texture format of the presentation surface.
func (t *TextureDevice) SurfaceFormat() gputypes.TextureFormat {
	return t.format
}

// Draw calls fn with the surface and extends the dirty region by the
// conservative clip bound in effect after fn returns. This is the
// recommended way to update content: only pixels the clip can reach need
// re-uploading.
func (t *TextureDevice) Draw(fn func(*ImageDevice)) error {
	if t.closed {
		return ErrClosed
	}
	fn(t.dev)
	t.dirty = t.dirty.Union(t.dev.ClipBounds().Intersect(t.dev.Bounds()))
	return nil
}

// MarkDirty extends the dirty region by r, clamped to the device bounds.
// Use this after writing to the backing image directly.
func (t *TextureDevice) MarkDirty(r image.Rectangle) {
	t.dirty = t.dirty.Union(r.Intersect(t.dev.Bounds()))
}

// IsDirty returns true if the device has pending changes that need to be
// uploaded to the GPU.
func (t *TextureDevice) IsDirty() bool {
	return !t.dirty.Empty()
}

// Resize changes the surface dimensions. The backing image is recreated
// and cleared, the clip stack is reset to the new bounds, and the GPU
// texture is recreated on next flush.
func (t *TextureDevice) Resize(width, height int) error {
	if t.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if width == t.dev.Width() && height == t.dev.Height() {
		return nil
	}
	fresh := NewImageDevice(width, height)
	fresh.Device.deviceToGlobal = t.dev.deviceToGlobal
	fresh.Device.globalToDevice = t.dev.globalToDevice
	fresh.Device.localToDevice = t.dev.localToDevice
	fresh.Device.updateQuickRejectBounds()
	t.dev = fresh
	t.sizeChanged = true
	t.dirty = image.Rect(0, 0, width, height)
	logger().Debug("cliptrack: texture device resized", "width", width, "height", height)
	return nil
}

// Flush uploads dirty content to the GPU texture and returns the texture
// for manual drawing if needed. The texture is created lazily: before the
// first RenderTo a pending placeholder is returned. Textures supporting
// region writes receive only the dirty rectangle; others get the whole
// buffer.
func (t *TextureDevice) Flush() (any, error) {
	if t.closed {
		return nil, ErrClosed
	}

	// If the size changed, defer destruction of the old texture: it may
	// still be referenced by in-flight GPU command buffers. RenderTo
	// destroys it after the new texture's synchronous upload.
	if t.sizeChanged {
		if t.texture != nil {
			if t.oldTexture != nil {
				if destroyer, ok := t.oldTexture.(textureDestroyer); ok {
					destroyer.Destroy()
				}
			}
			t.oldTexture = t.texture
			t.texture = nil
		}
		t.sizeChanged = false
	}

	if t.dirty.Empty() && t.texture != nil {
		return t.texture, nil
	}

	data := t.dev.img.Pix

	if t.texture == nil {
		t.texture = &pendingTexture{
			width:  t.dev.Width(),
			height: t.dev.Height(),
			data:   append([]byte(nil), data...),
		}
		t.dirty = image.Rectangle{}
		return t.texture, nil
	}

	// The placeholder carries its own pixel snapshot, so dirty content
	// must be folded into it or a later RenderTo uploads stale pixels.
	if pending, ok := t.texture.(*pendingTexture); ok {
		pending.data = append(pending.data[:0], data...)
		t.dirty = image.Rectangle{}
		return t.texture, nil
	}

	if region, ok := t.texture.(gpucontext.TextureRegionUpdater); ok && t.dirty != t.dev.Bounds() {
		err := region.UpdateRegion(t.dirty.Min.X, t.dirty.Min.Y,
			t.dirty.Dx(), t.dirty.Dy(), packRGBARegion(t.dev.img, t.dirty))
		if err != nil {
			return nil, fmt.Errorf("cliptrack: texture region update failed: %w", err)
		}
	} else if updater, ok := t.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("cliptrack: texture update failed: %w", err)
		}
	}
	t.dirty = image.Rectangle{}
	return t.texture, nil
}

// packRGBARegion copies a sub-rectangle of the image into densely packed
// RGBA rows, the layout TextureRegionUpdater.UpdateRegion expects.
func packRGBARegion(img *image.RGBA, r image.Rectangle) []byte {
	out := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out = append(out, img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]...)
	}
	return out
}

// Texture returns the current GPU texture without flushing. Returns nil
// if no texture has been created yet.
func (t *TextureDevice) Texture() any {
	return t.texture
}

// RenderTo flushes and draws the surface into a draw context at its global
// position. Only a device whose pixel grid is whole-pixel aligned to
// global space can be presented this way; anything else returns
// ErrUnalignedPresent and must be composed into an aligned device first.
func (t *TextureDevice) RenderTo(dc gpucontext.TextureDrawer) error {
	if t.closed {
		return ErrClosed
	}
	if !t.dev.IsPixelAlignedToGlobal() {
		return ErrUnalignedPresent
	}

	tex, err := t.Flush()
	if err != nil {
		return err
	}

	// If the texture is pending, create the real GPU texture now.
	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidDrawContext
		}

		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("cliptrack: NewTextureFromRGBA failed: %w", err)
		}
		t.texture = realTex
		tex = realTex

		// NewTextureFromRGBA uploads synchronously, so the previously
		// deferred texture is no longer referenced by the GPU.
		if t.oldTexture != nil {
			if destroyer, ok := t.oldTexture.(textureDestroyer); ok {
				destroyer.Destroy()
			}
			t.oldTexture = nil
		}
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}

	d2g := t.dev.DeviceToGlobal()
	return dc.DrawTexture(gpuTex, float32(d2g.C), float32(d2g.F))
}

// Close releases all resources associated with the device. After Close,
// the device should not be used. Close is idempotent.
func (t *TextureDevice) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	for _, tex := range []any{t.oldTexture, t.texture} {
		if tex == nil {
			continue
		}
		if destroyer, ok := tex.(textureDestroyer); ok {
			destroyer.Destroy()
		} else if _, pending := tex.(*pendingTexture); !pending {
			logger().Warn("cliptrack: texture handle cannot be destroyed")
		}
	}
	t.oldTexture = nil
	t.texture = nil

	// gpucontext.Device is a type token; polling is a capability of the
	// concrete device. Let in-flight work referencing the destroyed
	// textures drain when the device supports it.
	if p, ok := t.provider.Device().(interface{ Poll(wait bool) }); ok {
		p.Poll(true)
	}
	return nil
}
