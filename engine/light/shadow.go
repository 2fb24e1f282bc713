package light

import (
	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
)

// Shadow reservation caps of the default allocator.
const (
	MaxShadowedDirectionalLights = 4
	MaxShadowedOtherTiles        = 16
)

// ShadowSettings configures shadow rendering for a frame.
type ShadowSettings struct {
	// MaxDistance bounds shadow rendering and the culling distance.
	MaxDistance float32
	// CascadeCount is the number of cascades per directional light, 1 to 4.
	CascadeCount int
	// DirectionalAtlasSize and OtherAtlasSize are the atlas resolutions in texels.
	DirectionalAtlasSize int
	OtherAtlasSize       int
}

// DefaultShadowSettings returns the pipeline defaults: 100 units, 4 cascades, 1024 texel atlases.
func DefaultShadowSettings() ShadowSettings {
	return ShadowSettings{
		MaxDistance:          100,
		CascadeCount:         4,
		DirectionalAtlasSize: 1024,
		OtherAtlasSize:       1024,
	}
}

// ShadowAllocator reserves shadow map space for lights. Only the reservation contract is used by the
// collector: the returned vectors are forwarded verbatim to the shader arrays.
type ShadowAllocator interface {
	// Setup starts a new frame and forgets the previous frame's reservations.
	//
	// Parameters:
	//   - results: the camera's culling results
	//   - settings: the frame's shadow settings
	Setup(results CullingResults, settings ShadowSettings)

	// ReserveDirectionalShadows reserves shadow space for a directional light.
	//
	// Parameters:
	//   - l: the light
	//   - visibleIndex: the light's index in the visible list
	//
	// Returns:
	//   - [4]float32: the shadow data vector for the directional shadow array
	ReserveDirectionalShadows(l Light, visibleIndex int) [4]float32

	// ReserveOtherShadows reserves shadow space for a point or spot light.
	//
	// Parameters:
	//   - l: the light
	//   - visibleIndex: the light's index in the visible list
	//
	// Returns:
	//   - [4]float32: the shadow data vector for the other-light shadow array
	ReserveOtherShadows(l Light, visibleIndex int) [4]float32

	// Render draws the reserved shadow maps.
	Render(ctx renderer.Context)

	// Cleanup releases anything Render acquired.
	Cleanup(ctx renderer.Context)
}

// reservationAllocator hands out atlas tiles without rendering any shadow maps.
type reservationAllocator struct {
	results      CullingResults
	settings     ShadowSettings
	directional  int
	otherTiles   int
	reservations map[int][4]float32
}

var _ ShadowAllocator = &reservationAllocator{}

// NewShadowAllocator returns the default allocator. It caps reservations at MaxShadowedDirectionalLights
// directional lights and MaxShadowedOtherTiles other-light tiles (a point light takes six tiles).
//
// Returns:
//   - ShadowAllocator: the allocator
func NewShadowAllocator() ShadowAllocator {
	return &reservationAllocator{reservations: make(map[int][4]float32)}
}

func (a *reservationAllocator) Setup(results CullingResults, settings ShadowSettings) {
	a.results = results
	a.settings = settings
	a.directional = 0
	a.otherTiles = 0
	clear(a.reservations)
}

func (a *reservationAllocator) eligible(l Light, visibleIndex int) bool {
	return l.CastsShadows() && l.ShadowStrength() > 0 && a.results != nil && a.results.ShadowCasterBounds(visibleIndex)
}

func (a *reservationAllocator) ReserveDirectionalShadows(l Light, visibleIndex int) [4]float32 {
	if data, ok := a.reservations[visibleIndex]; ok {
		return data
	}
	data := [4]float32{}
	if a.directional < MaxShadowedDirectionalLights && a.eligible(l, visibleIndex) {
		cascades := common.Clamp(a.settings.CascadeCount, 1, 4)
		data = [4]float32{l.ShadowStrength(), float32(a.directional * cascades), l.ShadowNormalBias(), 0}
		a.directional++
	}
	a.reservations[visibleIndex] = data
	return data
}

func (a *reservationAllocator) ReserveOtherShadows(l Light, visibleIndex int) [4]float32 {
	if data, ok := a.reservations[visibleIndex]; ok {
		return data
	}
	data := [4]float32{0, 0, 0, -1}
	isPoint := l.Type() == LightTypePoint
	tiles := 1
	if isPoint {
		tiles = 6
	}
	if a.otherTiles+tiles <= MaxShadowedOtherTiles && a.eligible(l, visibleIndex) {
		var point float32
		if isPoint {
			point = 1
		}
		data = [4]float32{l.ShadowStrength(), float32(a.otherTiles), point, 0}
		a.otherTiles += tiles
	}
	a.reservations[visibleIndex] = data
	return data
}

func (a *reservationAllocator) Render(ctx renderer.Context) {
	if a.directional == 0 && a.otherTiles == 0 {
		return
	}
	ctx.BeginSample("Shadows")
	common.Logger().Debug("shadow reservations", "directional", a.directional, "otherTiles", a.otherTiles)
	ctx.EndSample("Shadows")
}

func (a *reservationAllocator) Cleanup(ctx renderer.Context) {
	a.results = nil
}
