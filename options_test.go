package cliptrack

import "testing"

func TestDeviceOptions(t *testing.T) {
	opts := defaultDeviceOptions()
	if opts.clipCapacity != 8 {
		t.Errorf("default clipCapacity = %d", opts.clipCapacity)
	}
	if opts.markerCapacity != 4 {
		t.Errorf("default markerCapacity = %d", opts.markerCapacity)
	}

	WithClipCapacity(32)(&opts)
	WithMarkerCapacity(16)(&opts)
	if opts.clipCapacity != 32 || opts.markerCapacity != 16 {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestDeviceOptionCapacityPrealloc(t *testing.T) {
	d := NewDevice(64, 64, WithClipCapacity(2), WithMarkerCapacity(1))

	// Capacities only size the initial arenas; growth past them works.
	for i := 0; i < 4; i++ {
		d.Save()
		d.ClipRect(XYWH(float64(i), float64(i), 10, 10), OpIntersect, false)
		d.SetMarker("m")
	}
	for i := 0; i < 4; i++ {
		d.Restore()
	}
	if !d.ClipIsWideOpen() {
		t.Errorf("clip = %v after unwinding", d.ClipBounds())
	}
	if _, ok := d.FindMarker("m"); ok {
		t.Error("markers should all have been restored away")
	}
}
