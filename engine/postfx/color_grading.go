package postfx

import (
	"math"

	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

// ColorAdjustmentsVector packs the adjustments for the shader:
// (2^exposure, contrast·0.01 + 1, hue/360, saturation·0.01 + 1).
func ColorAdjustmentsVector(c ColorAdjustments) [4]float32 {
	return [4]float32{
		float32(math.Pow(2, float64(c.PostExposure))),
		c.Contrast*0.01 + 1,
		c.HueShift / 360,
		c.Saturation*0.01 + 1,
	}
}

// WhiteBalanceVector packs temperature and tint scaled to [-1, 1].
func WhiteBalanceVector(w WhiteBalance) [4]float32 {
	return [4]float32{w.Temperature * 0.01, w.Tint * 0.01, 0, 0}
}

// LUTBakeParameters returns (size, 0.5/width, 0.5/height, size/(size−1)) for the LUT bake pass.
func LUTBakeParameters(r LUTResolution) [4]float32 {
	w, h := r.Size()
	size := float32(h)
	return [4]float32{size, 0.5 / float32(w), 0.5 / float32(h), size / (size - 1)}
}

// LUTApplyParameters returns (1/width, 1/height, size−1) for the passes that sample the LUT.
func LUTApplyParameters(r LUTResolution) [4]float32 {
	w, h := r.Size()
	return [4]float32{1 / float32(w), 1 / float32(h), float32(h) - 1, 0}
}

func (s *stackImpl) configureGrading() {
	ctx := s.cfg.Scope.Context()
	ca := s.settings.ColorAdjustments
	ctx.SetGlobalVector(shader.ColorAdjustments, ColorAdjustmentsVector(ca))
	ctx.SetGlobalVector(shader.ColorFilter, common.ColorToLinear(ca.ColorFilter))
	ctx.SetGlobalVector(shader.WhiteBalance, WhiteBalanceVector(s.settings.WhiteBalance))

	smh := s.settings.ShadowsMidtonesHighlights
	ctx.SetGlobalVector(shader.SMHShadows, common.ColorToLinear(smh.Shadows))
	ctx.SetGlobalVector(shader.SMHMidtones, common.ColorToLinear(smh.Midtones))
	ctx.SetGlobalVector(shader.SMHHighlights, common.ColorToLinear(smh.Highlights))
	ctx.SetGlobalVector(shader.SMHRange, [4]float32{smh.ShadowsStart, smh.ShadowsEnd, smh.HighlightsStart, smh.HighlightsEnd})
}

// doFinal bakes the LUT, grades source and resolves it to the camera target, through FXAA and a
// rescale pass when they apply.
func (s *stackImpl) doFinal(source renderer.TargetID) error {
	ctx := s.cfg.Scope.Context()
	s.configureGrading()

	w, h := s.cfg.LUTResolution.Size()
	lut, err := s.acquire(shader.ColorGradingLUT, common.Size{Width: w, Height: h}, renderer.FormatDefaultHDR)
	if err != nil {
		return err
	}
	ctx.SetGlobalVector(shader.ColorGradingLUTParameters, LUTBakeParameters(s.cfg.LUTResolution))
	mode := s.settings.ToneMapping
	var inLogC float32
	if s.cfg.UseHDR && mode != ToneMappingNone {
		inLogC = 1
	}
	ctx.SetGlobalFloat(shader.ColorGradingLUTInLogC, inLogC)
	if err := s.draw(source, lut, colorGradingPass(mode)); err != nil {
		return err
	}

	ctx.SetGlobalVector(shader.ColorGradingLUTParameters, LUTApplyParameters(s.cfg.LUTResolution))
	ctx.SetGlobalTexture(shader.ColorGradingLUT, lut)
	ctx.SetGlobalFloat(shader.FinalSrcBlend, float32(renderer.BlendOne))
	ctx.SetGlobalFloat(shader.FinalDstBlend, float32(renderer.BlendZero))

	fxaa := s.cfg.FXAA
	fxaaPass := PassFXAAWithLuma
	gradePass := PassApplyColorGradingWithLuma
	if s.cfg.KeepAlpha {
		fxaaPass = PassFXAA
		gradePass = PassApplyColorGrading
	}
	graded := renderer.Target(shader.ColorGradingResult)
	if fxaa.Enabled {
		ctx.SetGlobalVector(shader.FXAAConfig, [4]float32{fxaa.FixedThreshold, fxaa.RelativeThreshold, fxaa.SubpixelBlending, 0})
		if _, err := s.acquire(shader.ColorGradingResult, s.cfg.BufferSize, renderer.FormatDefault); err != nil {
			return err
		}
		if err := s.draw(source, graded, gradePass); err != nil {
			return err
		}
	}

	if s.cfg.BufferSize == s.cfg.Camera.PixelRect().Size() {
		if fxaa.Enabled {
			if err := s.finalDraw(graded, fxaaPass); err != nil {
				return err
			}
			if err := s.cfg.Scope.Release(graded); err != nil {
				return err
			}
		} else if err := s.finalDraw(source, PassApplyColorGrading); err != nil {
			return err
		}
	} else {
		final, err := s.acquire(shader.FinalResult, s.cfg.BufferSize, renderer.FormatDefault)
		if err != nil {
			return err
		}
		if fxaa.Enabled {
			if err := s.draw(graded, final, fxaaPass); err != nil {
				return err
			}
			if err := s.cfg.Scope.Release(graded); err != nil {
				return err
			}
		} else if err := s.draw(source, final, PassApplyColorGrading); err != nil {
			return err
		}
		if err := s.finalDraw(final, PassFinalRescale); err != nil {
			return err
		}
		if err := s.cfg.Scope.Release(final); err != nil {
			return err
		}
	}
	return s.cfg.Scope.Release(lut)
}
