package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// TargetID names a render target: either a temporary identified by its shader property or one of the
// built-in targets below.
type TargetID int32

const (
	// CameraTarget is the surface the camera presents to.
	CameraTarget TargetID = -1
	// MissingTexture is a 1x1 placeholder bound where a texture is optional.
	MissingTexture TargetID = -2
	// NoTarget leaves a render target slot empty.
	NoTarget TargetID = -3
)

// Target returns the temporary target identified by a shader property.
//
// Parameters:
//   - p: the property naming the target
//
// Returns:
//   - TargetID: the target identifier
func Target(p shader.Property) TargetID {
	return TargetID(p)
}

// Builtin reports whether the id is one of CameraTarget, MissingTexture or NoTarget.
func (id TargetID) Builtin() bool {
	return id < 0
}

func (id TargetID) String() string {
	switch id {
	case CameraTarget:
		return "CameraTarget"
	case MissingTexture:
		return "MissingTexture"
	case NoTarget:
		return "NoTarget"
	}
	return shader.Property(id).Name()
}

// Format is the pixel format class of a temporary target.
type Format int

const (
	// FormatDefault is the 8-bit per channel display format.
	FormatDefault Format = iota
	// FormatDefaultHDR is the half-float format used when HDR rendering is on.
	FormatDefaultHDR
	// FormatDepth is a depth-only format.
	FormatDepth
)

func (f Format) String() string {
	switch f {
	case FormatDefault:
		return "Default"
	case FormatDefaultHDR:
		return "DefaultHDR"
	case FormatDepth:
		return "Depth"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FilterMode selects how a target is sampled.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

// LoadAction selects what a render target holds when it is bound.
type LoadAction int

const (
	// LoadDontCare leaves the previous contents undefined.
	LoadDontCare LoadAction = iota
	// LoadLoad preserves the previous contents.
	LoadLoad
	// LoadClear clears to the value given by the next ClearRenderTarget.
	LoadClear
)

// BlendFactor is a blend factor carried through float shader globals such as FinalSrcBlend. The numeric
// values are part of that contract.
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendDstColor
	BlendSrcColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturate
	BlendOneMinusSrcAlpha
)

// TextureDescriptor describes a temporary target.
type TextureDescriptor struct {
	Width     int
	Height    int
	DepthBits int
	Filter    FilterMode
	Format    Format
}

// Size returns the dimensions of the descriptor.
func (d TextureDescriptor) Size() common.Size {
	return common.Size{Width: d.Width, Height: d.Height}
}

var (
	// ErrTargetHeld is returned when a temporary is acquired while the same slot is still held.
	ErrTargetHeld = errors.New("render target already held")
	// ErrTargetNotHeld is returned when a temporary that is not held is released or used.
	ErrTargetNotHeld = errors.New("render target not held")
	// ErrTargetsLeaked is returned by Submit when temporaries are still held.
	ErrTargetsLeaked = errors.New("temporary render targets still held at submit")
	// ErrNoSurface is returned when presenting without a configured surface.
	ErrNoSurface = errors.New("no surface configured")
)

// Context records GPU work for one frame: temporary target lifetimes, copies, render target binding,
// global shader values and full-screen draws. Geometry draws are issued by the engine's draw submitter
// against the same context. Commands execute in order when Submit is called.
type Context interface {
	// AcquireTemporary allocates a pooled target for the slot id.
	//
	// Parameters:
	//   - id: the slot to bind the target to
	//   - desc: size, depth bits, filter and format of the target
	//
	// Returns:
	//   - error: ErrTargetHeld if the slot is already held
	AcquireTemporary(id TargetID, desc TextureDescriptor) error

	// ReleaseTemporary returns the target bound to id to the pool.
	//
	// Parameters:
	//   - id: the slot to release
	//
	// Returns:
	//   - error: ErrTargetNotHeld if the slot is not held
	ReleaseTemporary(id TargetID) error

	// CopySupported reports whether CopyImage is available on this device.
	//
	// Returns:
	//   - bool: true if hardware image copies are supported
	CopySupported() bool

	// CopyImage copies the full contents of src into dst. Both must have matching size and format.
	//
	// Parameters:
	//   - src: the target to copy from
	//   - dst: the target to copy to
	//
	// Returns:
	//   - error: an error if either target is not held or copies are unsupported
	CopyImage(src, dst TargetID) error

	// SetRenderTarget binds color and depth targets for the following draws.
	//
	// Parameters:
	//   - color: the color target, or NoTarget
	//   - colorLoad: what the color target holds when bound
	//   - depth: the depth target, or NoTarget
	//   - depthLoad: what the depth target holds when bound
	SetRenderTarget(color TargetID, colorLoad LoadAction, depth TargetID, depthLoad LoadAction)

	// ClearRenderTarget clears the bound targets.
	//
	// Parameters:
	//   - clearDepth: clear the depth target to the far plane
	//   - clearColor: clear the color target to color
	//   - color: the clear color in linear space
	ClearRenderTarget(clearDepth, clearColor bool, color [4]float32)

	// SetViewport restricts the following draws to rect.
	//
	// Parameters:
	//   - rect: the viewport in pixels
	SetViewport(rect common.Rect)

	// SetGlobalTexture binds a target to a texture property.
	SetGlobalTexture(p shader.Property, id TargetID)

	// SetGlobalVector sets a vector property.
	SetGlobalVector(p shader.Property, v [4]float32)

	// SetGlobalFloat sets a float property.
	SetGlobalFloat(p shader.Property, f float32)

	// SetGlobalInt sets an integer property.
	SetGlobalInt(p shader.Property, i int32)

	// SetGlobalVectorArray sets a vector array property. Elements past the property's capacity are dropped.
	SetGlobalVectorArray(p shader.Property, v [][4]float32)

	// SetKeyword enables or disables a global shader keyword.
	SetKeyword(k shader.Keyword, enabled bool)

	// DrawFullscreen draws a full-screen triangle into the bound target with one pass of a program.
	//
	// Parameters:
	//   - program: the shader program
	//   - pass: the pass index within the program
	//
	// Returns:
	//   - error: an error if the pass does not exist or its inputs are not held
	DrawFullscreen(program shader.Program, pass int) error

	// BeginSample opens a named profiling scope.
	BeginSample(name string)

	// EndSample closes the profiling scope opened with the same name.
	EndSample(name string)

	// Submit executes the recorded commands.
	//
	// Returns:
	//   - error: ErrTargetsLeaked if temporaries are still held, or a backend error
	Submit() error
}
