package shader

import "fmt"

// Property is a shader binding slot: a global texture, vector, float or integer, or the identifier of a
// temporary render target. The set is closed; every slot is known at compile time and resolved once into
// the lookup table returned by Lookup.
type Property uint16

const (
	// per-camera globals
	CameraBufferSize Property = iota
	CameraColorTexture
	CameraDepthTexture
	SourceTexture
	SourceDepthTexture

	// camera attachments
	CameraColorAttachment
	CameraDepthAttachment

	// post-processing globals
	FXSource
	FXSource2
	BloomThreshold
	BloomIntensity
	ColorAdjustments
	ColorFilter
	WhiteBalance
	SMHShadows
	SMHMidtones
	SMHHighlights
	SMHRange
	ColorGradingLUT
	ColorGradingLUTParameters
	ColorGradingLUTInLogC
	FinalSrcBlend
	FinalDstBlend
	FXAAConfig

	// post-processing intermediates
	BloomPrefilter
	BloomResult
	ColorGradingResult
	FinalResult

	// lighting
	DirectionalLightCount
	DirectionalLightColors
	DirectionalLightDirectionsAndMasks
	DirectionalLightShadowData
	OtherLightCount
	OtherLightColors
	OtherLightPositions
	OtherLightDirectionsAndMasks
	OtherLightSpotAngles
	OtherLightShadowData

	// BloomPyramid0 is the first of BloomPyramidSlots consecutive pyramid targets.
	BloomPyramid0
)

// MaxBloomPyramidLevels is the deepest bloom pyramid the slot table can hold.
const MaxBloomPyramidLevels = 16

// BloomPyramidSlots is the number of pyramid targets reserved after BloomPyramid0; every level uses two.
const BloomPyramidSlots = MaxBloomPyramidLevels * 2

// PropertyCount is the total number of properties, including the pyramid block.
const PropertyCount = int(BloomPyramid0) + BloomPyramidSlots

// Lighting array capacities of the GPU lighting block.
const (
	MaxDirectionalLights = 4
	MaxOtherLights       = 64
)

// Kind is the value type stored in a property slot.
type Kind int

const (
	KindTarget Kind = iota
	KindTexture
	KindVector
	KindFloat
	KindInt
	KindVectorArray
)

// Block identifies the uniform block a value property is packed into.
type Block int

const (
	BlockNone Block = iota
	BlockPostFX
	BlockLighting
)

// NoSlot marks a texture property that the full-screen programs do not sample.
const NoSlot = -1

// Binding is the resolved layout of a single property.
type Binding struct {
	// Name is the identifier used in shader source and debug output.
	Name string
	// Kind is the value type of the slot.
	Kind Kind
	// Block is the uniform block holding the value, BlockNone for textures and targets.
	Block Block
	// Offset is the byte offset inside Block.
	Offset uint32
	// Length is the array capacity for KindVectorArray properties, 1 otherwise.
	Length int
	// Slot is the binding index in the full-screen bind group layout, or NoSlot.
	Slot int
}

// Block sizes in bytes.
const (
	PostFXBlockSize   = 192
	LightingBlockSize = 16 + (MaxDirectionalLights*3+MaxOtherLights*5)*16
)

var table = resolve()

func resolve() [PropertyCount]Binding {
	var t [PropertyCount]Binding
	target := func(p Property, name string) {
		t[p] = Binding{Name: name, Kind: KindTarget, Length: 1, Slot: NoSlot}
	}
	texture := func(p Property, name string, slot int) {
		t[p] = Binding{Name: name, Kind: KindTexture, Length: 1, Slot: slot}
	}
	value := func(p Property, name string, kind Kind, block Block, offset uint32, length int) {
		t[p] = Binding{Name: name, Kind: kind, Block: block, Offset: offset, Length: length, Slot: NoSlot}
	}

	value(CameraBufferSize, "_CameraBufferSize", KindVector, BlockPostFX, 0, 1)
	texture(CameraColorTexture, "_CameraColorTexture", NoSlot)
	texture(CameraDepthTexture, "_CameraDepthTexture", NoSlot)
	texture(SourceTexture, "_SourceTexture", 4)
	texture(SourceDepthTexture, "_SourceDepthTexture", 5)
	target(CameraColorAttachment, "_CameraColorAttachment")
	target(CameraDepthAttachment, "_CameraDepthAttachment")

	texture(FXSource, "_PostFXSource", 1)
	texture(FXSource2, "_PostFXSource2", 2)
	value(BloomThreshold, "_BloomThreshold", KindVector, BlockPostFX, 16, 1)
	value(ColorAdjustments, "_ColorAdjustments", KindVector, BlockPostFX, 32, 1)
	value(ColorFilter, "_ColorFilter", KindVector, BlockPostFX, 48, 1)
	value(WhiteBalance, "_WhiteBalance", KindVector, BlockPostFX, 64, 1)
	value(SMHShadows, "_SMHShadows", KindVector, BlockPostFX, 80, 1)
	value(SMHMidtones, "_SMHMidtones", KindVector, BlockPostFX, 96, 1)
	value(SMHHighlights, "_SMHHighlights", KindVector, BlockPostFX, 112, 1)
	value(SMHRange, "_SMHRange", KindVector, BlockPostFX, 128, 1)
	value(ColorGradingLUTParameters, "_ColorGradingLUTParameters", KindVector, BlockPostFX, 144, 1)
	value(FXAAConfig, "_FXAAConfig", KindVector, BlockPostFX, 160, 1)
	value(BloomIntensity, "_BloomIntensity", KindFloat, BlockPostFX, 176, 1)
	value(ColorGradingLUTInLogC, "_ColorGradingLUTInLogC", KindFloat, BlockPostFX, 180, 1)
	value(FinalSrcBlend, "_FinalSrcBlend", KindFloat, BlockPostFX, 184, 1)
	value(FinalDstBlend, "_FinalDstBlend", KindFloat, BlockPostFX, 188, 1)
	texture(ColorGradingLUT, "_ColorGradingLUT", 3)

	target(BloomPrefilter, "_BloomPrefilter")
	target(BloomResult, "_BloomResult")
	target(ColorGradingResult, "_ColorGradingResult")
	target(FinalResult, "_FinalResult")

	offset := uint32(16)
	array := func(p Property, name string, length int) {
		value(p, name, KindVectorArray, BlockLighting, offset, length)
		offset += uint32(length) * 16
	}
	value(DirectionalLightCount, "_DirectionalLightCount", KindInt, BlockLighting, 0, 1)
	value(OtherLightCount, "_OtherLightCount", KindInt, BlockLighting, 4, 1)
	array(DirectionalLightColors, "_DirectionalLightColors", MaxDirectionalLights)
	array(DirectionalLightDirectionsAndMasks, "_DirectionalLightDirectionsAndMasks", MaxDirectionalLights)
	array(DirectionalLightShadowData, "_DirectionalLightShadowData", MaxDirectionalLights)
	array(OtherLightColors, "_OtherLightColors", MaxOtherLights)
	array(OtherLightPositions, "_OtherLightPositions", MaxOtherLights)
	array(OtherLightDirectionsAndMasks, "_OtherLightDirectionsAndMasks", MaxOtherLights)
	array(OtherLightSpotAngles, "_OtherLightSpotAngles", MaxOtherLights)
	array(OtherLightShadowData, "_OtherLightShadowData", MaxOtherLights)

	for i := 0; i < BloomPyramidSlots; i++ {
		target(BloomPyramid0+Property(i), fmt.Sprintf("_BloomPyramid%d", i))
	}
	return t
}

// Lookup returns the resolved binding of p. Unknown properties yield a zero Binding with an empty name.
//
// Parameters:
//   - p: the property to resolve
//
// Returns:
//   - Binding: the layout of the property
func Lookup(p Property) Binding {
	if int(p) >= PropertyCount {
		return Binding{Slot: NoSlot}
	}
	return table[p]
}

// Name returns the shader identifier of the property.
func (p Property) Name() string {
	if b := Lookup(p); b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("Property(%d)", uint16(p))
}

func (p Property) String() string {
	return p.Name()
}

// BloomPyramid returns the pyramid target at index i, or false when i is outside the reserved block.
//
// Parameters:
//   - i: zero-based pyramid slot index
//
// Returns:
//   - Property: the pyramid target property
//   - bool: true if the slot exists
func BloomPyramid(i int) (Property, bool) {
	if i < 0 || i >= BloomPyramidSlots {
		return 0, false
	}
	return BloomPyramid0 + Property(i), true
}

// PropertyByName resolves a shader identifier back to its property.
//
// Parameters:
//   - name: the shader identifier, e.g. "_BloomThreshold"
//
// Returns:
//   - Property: the matching property
//   - bool: false if no property carries the name
func PropertyByName(name string) (Property, bool) {
	for i := range table {
		if table[i].Name == name {
			return Property(i), true
		}
	}
	return 0, false
}
