package cliptrack

// DeviceOption configures a Device during creation.
// Use functional options to customize Device behavior.
//
// Example:
//
//	// Default arenas
//	dev := cliptrack.NewDevice(800, 600)
//
//	// Deep UI trees: pre-size the clip entry arena
//	dev := cliptrack.NewDevice(800, 600, cliptrack.WithClipCapacity(64))
type DeviceOption func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	clipCapacity   int
	markerCapacity int
}

// defaultDeviceOptions returns the default device options.
func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		clipCapacity:   8,
		markerCapacity: 4,
	}
}

// WithClipCapacity pre-sizes the clip stack's entry arena. Entries beyond
// the capacity still work; they just allocate on first use. Useful when
// the depth of the draw tree is known up front.
func WithClipCapacity(n int) DeviceOption {
	return func(o *deviceOptions) {
		o.clipCapacity = n
	}
}

// WithMarkerCapacity pre-sizes the marker stack's record arena.
func WithMarkerCapacity(n int) DeviceOption {
	return func(o *deviceOptions) {
		o.markerCapacity = n
	}
}
