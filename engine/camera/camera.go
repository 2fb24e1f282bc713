package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-rp/common"
)

// Kind identifies what a camera renders for. Only game and scene-view cameras get post-processing.
type Kind int

const (
	KindGame Kind = iota
	KindSceneView
	KindPreview
	KindReflection
)

func (k Kind) String() string {
	switch k {
	case KindGame:
		return "Game"
	case KindSceneView:
		return "SceneView"
	case KindPreview:
		return "Preview"
	case KindReflection:
		return "Reflection"
	default:
		return "Unknown"
	}
}

// ClearFlags is ordered: every value clears what the values after it clear.
type ClearFlags int

const (
	// ClearSkybox clears color and depth; the background comes from the sky draw.
	ClearSkybox ClearFlags = iota
	// ClearColor clears color to the background color and clears depth.
	ClearColor
	// ClearDepth clears only depth.
	ClearDepth
	// ClearNothing keeps the target contents.
	ClearNothing
)

type cameraImpl struct {
	mu *sync.Mutex

	name string
	kind Kind

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov  float32
	near float32
	far  float32

	pixelRect  common.Rect
	allowHDR   bool
	clearFlags ClearFlags
	background [4]float32
	settings   Settings
}

// Camera is a view into the scene with its render target rectangle and per-camera render settings.
type Camera interface {
	// Name returns the camera name used for frame sample labels.
	Name() string

	// Kind returns the camera kind.
	Kind() Kind

	// Position returns the camera's world-space position.
	Position() [3]float32

	// Target returns the look-at point.
	Target() [3]float32

	// Forward returns the normalized view direction.
	Forward() [3]float32

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Aspect returns the pixel rect aspect ratio, or 1 for an empty rect.
	Aspect() float32

	// PixelRect returns the camera's rectangle on the presentation target in pixels.
	PixelRect() common.Rect

	// AllowHDR reports whether the camera may render into an HDR buffer.
	AllowHDR() bool

	// ClearFlags returns what the camera clears before drawing.
	ClearFlags() ClearFlags

	// BackgroundColor returns the clear color in gamma space.
	BackgroundColor() [4]float32

	// Settings returns the camera-level render settings.
	Settings() Settings

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection * view (column-major).
	ViewProjectionMatrix() [16]float32

	// SetPosition moves the camera.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetPixelRect resizes the camera's target rectangle, typically after a surface resize.
	//
	// Parameters:
	//   - rect: the new rectangle in pixels
	SetPixelRect(rect common.Rect)

	// SetSettings replaces the camera-level render settings.
	//
	// Parameters:
	//   - s: the new settings
	SetSettings(s Settings)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a game camera at (0, 1, -10) looking at the origin with a 60 degree field of view,
// a far plane of 1000 and HDR allowed.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		name:       "Camera",
		kind:       KindGame,
		position:   [3]float32{0, 1, -10},
		up:         [3]float32{0, 1, 0},
		fov:        60 * (math.Pi / 180),
		near:       0.3,
		far:        1000,
		allowHDR:   true,
		clearFlags: ClearSkybox,
		background: [4]float32{0.19, 0.3, 0.47, 0},
		settings:   DefaultSettings(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Name() string {
	return c.name
}

func (c *cameraImpl) Kind() Kind {
	return c.kind
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Forward() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Normalize3([3]float32{
		c.target[0] - c.position[0],
		c.target[1] - c.position[1],
		c.target[2] - c.position[2],
	})
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect()
}

func (c *cameraImpl) aspect() float32 {
	if c.pixelRect.Size().Empty() {
		return 1
	}
	return float32(c.pixelRect.Width) / float32(c.pixelRect.Height)
}

func (c *cameraImpl) PixelRect() common.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelRect
}

func (c *cameraImpl) AllowHDR() bool {
	return c.allowHDR
}

func (c *cameraImpl) ClearFlags() ClearFlags {
	return c.clearFlags
}

func (c *cameraImpl) BackgroundColor() [4]float32 {
	return c.background
}

func (c *cameraImpl) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var m [16]float32
	common.LookAt(m[:], c.position, c.target, c.up)
	return m
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var m [16]float32
	common.Perspective(m[:], c.fov, c.aspect(), c.near, c.far)
	return m
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	var m [16]float32
	common.Mul4(m[:], proj[:], view[:])
	return m
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
}

func (c *cameraImpl) SetTarget(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = [3]float32{x, y, z}
}

func (c *cameraImpl) SetPixelRect(rect common.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pixelRect = rect
}

func (c *cameraImpl) SetSettings(s Settings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
}
