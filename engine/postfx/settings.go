package postfx

import "fmt"

// BloomMode selects how bloom pyramid levels are combined. The mode picks both the combine pass and the
// weight given to the coarser level.
type BloomMode int

const (
	BloomAdditive BloomMode = iota
	BloomScattering
)

func (m BloomMode) String() string {
	if m == BloomScattering {
		return "Scattering"
	}
	return "Additive"
}

// combine returns the combine pass and the weight of the coarser level.
func (m BloomMode) combine(scatter float32) (Pass, float32) {
	if m == BloomScattering {
		return PassBloomScatter, scatter
	}
	return PassBloomAdd, 1
}

// BloomSettings configures the bloom pyramid.
type BloomSettings struct {
	// IgnoreRenderScale sizes the pyramid from the camera pixel rect instead of the scaled buffer.
	IgnoreRenderScale bool
	// MaxIterations caps the pyramid depth, 0 to 16; 0 disables bloom.
	MaxIterations int
	// DownscaleLimit is the smallest level dimension in pixels, at least 1.
	DownscaleLimit int
	Threshold      float32
	ThresholdKnee  float32
	Intensity      float32
	// FadeFireflies uses the luminance-weighted prefilter.
	FadeFireflies bool
	Mode          BloomMode
	Scatter       float32
}

// ToneMappingMode selects the tone mapping curve baked into the LUT.
type ToneMappingMode int

const (
	ToneMappingNone ToneMappingMode = iota
	ToneMappingACES
	ToneMappingNeutral
	ToneMappingReinhard
)

func (m ToneMappingMode) String() string {
	switch m {
	case ToneMappingNone:
		return "None"
	case ToneMappingACES:
		return "ACES"
	case ToneMappingNeutral:
		return "Neutral"
	case ToneMappingReinhard:
		return "Reinhard"
	default:
		return fmt.Sprintf("ToneMappingMode(%d)", int(m))
	}
}

// ColorAdjustments holds the basic grading controls. Contrast, HueShift and Saturation use the editor
// ranges: -100..100, -180..180 and -100..100.
type ColorAdjustments struct {
	PostExposure float32
	Contrast     float32
	ColorFilter  [4]float32 // gamma space
	HueShift     float32
	Saturation   float32
}

// WhiteBalance shifts the white point; both values range -100..100.
type WhiteBalance struct {
	Temperature float32
	Tint        float32
}

// ShadowsMidtonesHighlights tints three luminance bands. Colors are in gamma space and the range
// values lie in [0, 1].
type ShadowsMidtonesHighlights struct {
	Shadows         [4]float32
	Midtones        [4]float32
	Highlights      [4]float32
	ShadowsStart    float32
	ShadowsEnd      float32
	HighlightsStart float32
	HighlightsEnd   float32
}

// Settings is the complete post-processing configuration. It is read-only during a frame.
type Settings struct {
	Bloom                     BloomSettings
	ToneMapping               ToneMappingMode
	ColorAdjustments          ColorAdjustments
	WhiteBalance              WhiteBalance
	ShadowsMidtonesHighlights ShadowsMidtonesHighlights
}

// FXAA configures the anti-aliasing pass.
type FXAA struct {
	Enabled bool
	// FixedThreshold ranges 0.0312 to 0.0833.
	FixedThreshold float32
	// RelativeThreshold ranges 0.063 to 0.333.
	RelativeThreshold float32
	// SubpixelBlending ranges 0 to 1.
	SubpixelBlending float32
}

// DefaultFXAA returns FXAA disabled with the high quality thresholds.
func DefaultFXAA() FXAA {
	return FXAA{FixedThreshold: 0.0833, RelativeThreshold: 0.166, SubpixelBlending: 0.75}
}

// LUTResolution is the edge length of the color grading LUT cube.
type LUTResolution int

const (
	LUT16 LUTResolution = 16
	LUT32 LUTResolution = 32
	LUT64 LUTResolution = 64
)

// Valid reports whether r is one of LUT16, LUT32 or LUT64.
func (r LUTResolution) Valid() bool {
	return r == LUT16 || r == LUT32 || r == LUT64
}

// Size returns the LUT strip dimensions: size² by size.
func (r LUTResolution) Size() (width, height int) {
	return int(r) * int(r), int(r)
}

var white = [4]float32{1, 1, 1, 1}

// NeutralColorAdjustments leaves colors unchanged.
func NeutralColorAdjustments() ColorAdjustments {
	return ColorAdjustments{ColorFilter: white}
}

// NeutralShadowsMidtonesHighlights leaves colors unchanged and uses the default band ranges.
func NeutralShadowsMidtonesHighlights() ShadowsMidtonesHighlights {
	return ShadowsMidtonesHighlights{
		Shadows:         white,
		Midtones:        white,
		Highlights:      white,
		ShadowsEnd:      0.3,
		HighlightsStart: 0.55,
		HighlightsEnd:   1,
	}
}

// NewSettings creates settings with bloom disabled, no tone mapping and neutral grading.
//
// Parameters:
//   - opts: variadic list of SettingsBuilderOption functions
//
// Returns:
//   - *Settings: the settings
func NewSettings(opts ...SettingsBuilderOption) *Settings {
	s := &Settings{
		Bloom: BloomSettings{
			DownscaleLimit: 1,
			Threshold:      0.5,
			ThresholdKnee:  0.5,
			Scatter:        0.7,
		},
		ColorAdjustments:          NeutralColorAdjustments(),
		ShadowsMidtonesHighlights: NeutralShadowsMidtonesHighlights(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
