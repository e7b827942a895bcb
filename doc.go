// Package cliptrack tracks conservative clip bounds and coordinate frames
// for retained-mode 2D drawing surfaces.
//
// # Overview
//
// cliptrack is the bookkeeping core that a drawing surface ("device")
// consults before rasterizing anything. It maintains a cheap, always-safe
// over-approximation of the active clip region together with the matrices
// relating the device's pixel grid to a shared global space, so that draw
// and composite calls can be quick-rejected or positioned without running
// the exact-geometry clip path.
//
// # Quick Start
//
//	import "github.com/gogpu/cliptrack"
//
//	dev := cliptrack.NewDevice(512, 512)
//
//	dev.Save()
//	dev.ClipRect(cliptrack.XYWH(10, 10, 100, 100), cliptrack.OpIntersect, false)
//	if !dev.QuickReject(cliptrack.XYWH(40, 40, 20, 20)) {
//	    // submit the draw; it may be visible
//	}
//	dev.Restore()
//
// # Architecture
//
// The library is organized into:
//   - Geometry: Rect, Point, Matrix (projective 3x3)
//   - Clip tracking: ConservativeClip, ClipStack (deferred copy-on-write)
//   - Coordinate frames: the Device transform pair and MarkerStack
//   - Surfaces: ImageDevice (pixel-backed), TextureDevice (GPU-backed via
//     gogpu/gpucontext)
//
// The tracked clip bounds are conservative: they always contain the true
// clip region and may exceed it. Exact regions, antialiased clip masks and
// rasterization itself are out of scope; they live behind the surface
// integrations.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Device space is a surface's own pixel grid; global space is the
//     shared space composing multiple devices
//
// # Concurrency
//
// A device and its stacks are owned by exactly one drawing context at a
// time and are not safe for concurrent use. The one exception is the
// package logger, which may be swapped from any goroutine; see SetLogger.
package cliptrack
