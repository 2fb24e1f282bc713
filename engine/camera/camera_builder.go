package camera

import "github.com/Carmen-Shannon/oxy-rp/common"

type CameraBuilderOption func(*cameraImpl)

// WithName sets the camera name used for frame sample labels.
//
// Parameters:
//   - name: the camera name
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's name
func WithName(name string) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.name = name
	}
}

// WithKind sets the camera kind.
//
// Parameters:
//   - kind: the camera kind
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's kind
func WithKind(kind Kind) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.kind = kind
	}
}

// WithPosition sets the camera's world-space position.
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [3]float32{x, y, z}
	}
}

// WithTarget sets the camera's look-at point.
func WithTarget(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.target = [3]float32{x, y, z}
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithPixelRect sets the camera's rectangle on the presentation target.
func WithPixelRect(rect common.Rect) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pixelRect = rect
	}
}

// WithHDR sets whether the camera may render into an HDR buffer.
func WithHDR(allow bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.allowHDR = allow
	}
}

// WithClear sets the clear flags and the background color used by ClearColor.
//
// Parameters:
//   - flags: what to clear
//   - background: the clear color in gamma space
//
// Returns:
//   - CameraBuilderOption: a function that sets the clear state
func WithClear(flags ClearFlags, background [4]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clearFlags = flags
		c.background = background
	}
}

// WithSettings sets the camera-level render settings.
func WithSettings(s Settings) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.settings = s
	}
}
