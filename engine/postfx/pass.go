package postfx

// Pass indexes the passes of shader.ProgramPostFX.
type Pass int

const (
	PassBloomAdd Pass = iota
	PassBloomHorizontal
	PassBloomPrefilter
	PassBloomPrefilterFireflies
	PassBloomScatter
	PassBloomVertical
	PassColorGradingNone
	PassColorGradingACES
	PassColorGradingNeutral
	PassColorGradingReinhard
	PassCopy
	PassFinalRescale
	PassFXAA
	PassFXAAWithLuma
	PassApplyColorGrading
	PassApplyColorGradingWithLuma
)

// colorGradingPass returns the LUT bake pass of a tone mapping mode.
func colorGradingPass(mode ToneMappingMode) Pass {
	return PassColorGradingNone + Pass(mode)
}
