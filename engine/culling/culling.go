package culling

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/light"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

// SortCriteria orders the drawables of one batch.
type SortCriteria int

const (
	// SortCommonOpaque sorts by render queue, then front to back.
	SortCommonOpaque SortCriteria = iota
	// SortCommonTransparent sorts by render queue, then back to front.
	SortCommonTransparent
)

// QueueRange is an inclusive range of render queue values.
type QueueRange struct {
	Lower int
	Upper int
}

var (
	QueueRangeOpaque      = QueueRange{Lower: 0, Upper: 2500}
	QueueRangeTransparent = QueueRange{Lower: 2501, Upper: 5000}
	QueueRangeAll         = QueueRange{Lower: 0, Upper: 5000}
)

// Contains reports whether queue lies inside the range.
func (r QueueRange) Contains(queue int) bool {
	return queue >= r.Lower && queue <= r.Upper
}

// PerObjectData is a set of flags naming the per-object data a batch needs.
type PerObjectData uint32

const (
	PerObjectLightmaps PerObjectData = 1 << iota
	PerObjectShadowMask
	PerObjectLightProbe
	PerObjectOcclusionProbe
	PerObjectReflectionProbes
	PerObjectLightData
	PerObjectLightIndices
)

// Has reports whether every flag of o is set.
func (p PerObjectData) Has(o PerObjectData) bool {
	return p&o == o
}

// DrawSettings describes how a batch is drawn. The orchestrator reuses one value for the opaque and the
// transparent batch and changes only Sorting between them.
type DrawSettings struct {
	Sorting               SortCriteria
	EnableDynamicBatching bool
	EnableInstancing      bool
	PerObjectData         PerObjectData
	ShaderPasses          []string
}

// FilterSettings selects the drawables of a batch.
type FilterSettings struct {
	Queue              QueueRange
	RenderingLayerMask uint32
}

// Drawable is anything the submitter can draw.
type Drawable interface {
	// Name identifies the drawable in logs.
	Name() string

	// Bounds returns the bounding sphere in world space. A radius of +Inf is never culled.
	Bounds() (center [3]float32, radius float32)

	// RenderQueue returns the queue value used by batch filters and sorting.
	RenderQueue() int

	// RenderingLayerMask returns the layers the drawable belongs to.
	RenderingLayerMask() uint32

	// CastsShadows reports whether the drawable counts as a shadow caster.
	CastsShadows() bool

	// Draw records the drawable into ctx.
	//
	// Parameters:
	//   - ctx: the frame's render context
	//   - settings: the batch settings
	//
	// Returns:
	//   - error: an error if recording fails
	Draw(ctx renderer.Context, settings DrawSettings) error
}

// Results is the visibility of one camera for one frame.
type Results interface {
	light.CullingResults

	// Camera returns the culled camera.
	Camera() camera.Camera

	// Drawables returns the visible drawables in scene order.
	Drawables() []Drawable

	// ShadowDistance returns the distance shadow casters were limited to.
	ShadowDistance() float32

	// LightIndexMap returns the current per-object light index map.
	LightIndexMap() []int
}

// Culler computes the visibility of a camera.
type Culler interface {
	// Cull returns the visible lights and drawables of cam.
	//
	// Parameters:
	//   - cam: the camera
	//   - maxShadowDistance: the configured shadow distance; the culling uses min(maxShadowDistance, cam.Far())
	//
	// Returns:
	//   - Results: the visibility results
	//   - bool: false when the camera cannot produce valid culling parameters
	Cull(cam camera.Camera, maxShadowDistance float32) (Results, bool)
}

// DrawSubmitter draws one filtered, sorted batch of visible drawables.
type DrawSubmitter interface {
	// DrawRenderers draws the drawables of results selected by filter, ordered by settings.Sorting.
	//
	// Parameters:
	//   - ctx: the frame's render context
	//   - results: the camera's culling results
	//   - settings: the batch settings
	//   - filter: the batch filter
	//
	// Returns:
	//   - error: the first error returned by a drawable
	DrawRenderers(ctx renderer.Context, results Results, settings DrawSettings, filter FilterSettings) error
}
