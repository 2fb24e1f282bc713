package camera_renderer

import (
	"github.com/Carmen-Shannon/oxy-rp/engine/camera"
	"github.com/Carmen-Shannon/oxy-rp/engine/culling"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

// EditorHooks are the points where an editor can add to a camera frame. Runtime builds use NoopEditorHooks.
type EditorHooks interface {
	// PrepareForSceneWindow runs before culling.
	//
	// Parameters:
	//   - cam: the camera about to render
	//
	// Returns:
	//   - bool: true to render the camera at native resolution regardless of the render scale
	PrepareForSceneWindow(cam camera.Camera) bool

	// DrawUnsupportedShaders draws the visible drawables no shader pass of the pipeline can render.
	DrawUnsupportedShaders(ctx renderer.Context, results culling.Results) error

	// DrawGizmosBeforeFX draws gizmos that should be post-processed.
	DrawGizmosBeforeFX(ctx renderer.Context, cam camera.Camera) error

	// DrawGizmosAfterFX draws gizmos on top of the final image.
	DrawGizmosAfterFX(ctx renderer.Context, cam camera.Camera) error
}

// NoopEditorHooks does nothing.
type NoopEditorHooks struct{}

var _ EditorHooks = NoopEditorHooks{}

func (NoopEditorHooks) PrepareForSceneWindow(camera.Camera) bool { return false }

func (NoopEditorHooks) DrawUnsupportedShaders(renderer.Context, culling.Results) error { return nil }

func (NoopEditorHooks) DrawGizmosBeforeFX(renderer.Context, camera.Camera) error { return nil }

func (NoopEditorHooks) DrawGizmosAfterFX(renderer.Context, camera.Camera) error { return nil }

// SceneWindowHooks renders scene-view cameras unscaled and otherwise behaves like NoopEditorHooks.
type SceneWindowHooks struct {
	NoopEditorHooks
}

func (SceneWindowHooks) PrepareForSceneWindow(cam camera.Camera) bool {
	return cam.Kind() == camera.KindSceneView
}
