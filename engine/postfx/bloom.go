package postfx

import (
	"github.com/Carmen-Shannon/oxy-rp/common"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer"
	"github.com/Carmen-Shannon/oxy-rp/engine/renderer/shader"
)

type bloomLevel struct {
	horizontal renderer.TargetID
	vertical   renderer.TargetID
	size       common.Size
}

// BloomThreshold returns the soft knee vector uploaded to the prefilter:
// (t, t·knee − t, 2·t·knee, 0.25 / (t·knee + 1e-5)) with t the linear threshold.
//
// Parameters:
//   - threshold: the brightness threshold in gamma space
//   - knee: the knee fraction in [0, 1]
//
// Returns:
//   - [4]float32: the threshold vector
func BloomThreshold(threshold, knee float32) [4]float32 {
	t := common.GammaToLinear(threshold)
	k := t * knee
	return [4]float32{t, k - t, 2 * k, 0.25 / (k + 0.00001)}
}

// doBloom renders the bloom pyramid into BloomResult. It returns false without acquiring anything when
// bloom is disabled or the half-size working buffer is already below the downscale limit.
func (s *stackImpl) doBloom(source renderer.TargetID) (bool, error) {
	b := s.settings.Bloom
	size := s.cfg.BufferSize
	if b.IgnoreRenderScale {
		size = s.cfg.Camera.PixelRect().Size()
	}
	size = size.Halve()
	limit := max(b.DownscaleLimit, 1)
	if b.MaxIterations <= 0 || b.Intensity <= 0 || size.Width < limit || size.Height < limit {
		common.Logger().Debug("bloom skipped", "camera", s.cfg.Camera.Name(), "halfSize", size)
		return false, nil
	}

	ctx := s.cfg.Scope.Context()
	ctx.BeginSample("Bloom")
	defer ctx.EndSample("Bloom")

	ctx.SetGlobalVector(shader.BloomThreshold, BloomThreshold(b.Threshold, b.ThresholdKnee))
	format := s.format()
	prefilter, err := s.acquire(shader.BloomPrefilter, size, format)
	if err != nil {
		return false, err
	}
	prefilterPass := PassBloomPrefilter
	if b.FadeFireflies {
		prefilterPass = PassBloomPrefilterFireflies
	}
	if err := s.draw(source, prefilter, prefilterPass); err != nil {
		return false, err
	}

	iterations := min(b.MaxIterations, shader.MaxBloomPyramidLevels)
	levels := make([]bloomLevel, 0, iterations)
	from := prefilter
	size = size.Halve()
	for i := 0; i < iterations; i++ {
		if size.Width < limit || size.Height < limit {
			break
		}
		hp, _ := shader.BloomPyramid(2 * i)
		vp, _ := shader.BloomPyramid(2*i + 1)
		h, err := s.acquire(hp, size, format)
		if err != nil {
			return false, err
		}
		v, err := s.acquire(vp, size, format)
		if err != nil {
			return false, err
		}
		if err := s.draw(from, h, PassBloomHorizontal); err != nil {
			return false, err
		}
		if err := s.draw(h, v, PassBloomVertical); err != nil {
			return false, err
		}
		levels = append(levels, bloomLevel{horizontal: h, vertical: v, size: size})
		from = v
		size = size.Halve()
	}

	combinePass, weight := b.Mode.combine(b.Scatter)
	ctx.SetGlobalFloat(shader.BloomIntensity, weight)

	if n := len(levels); n > 0 {
		if err := s.cfg.Scope.Release(prefilter); err != nil {
			return false, err
		}
		if err := s.cfg.Scope.Release(levels[n-1].horizontal); err != nil {
			return false, err
		}
		// Walk coarsest to finest; the finer level's horizontal target receives the combined image.
		for k := n - 1; k > 0; k-- {
			to := levels[k-1].horizontal
			ctx.SetGlobalTexture(shader.FXSource2, levels[k-1].vertical)
			if err := s.draw(from, to, combinePass); err != nil {
				return false, err
			}
			if err := s.cfg.Scope.Release(from); err != nil {
				return false, err
			}
			if err := s.cfg.Scope.Release(levels[k-1].vertical); err != nil {
				return false, err
			}
			from = to
		}
	}

	ctx.SetGlobalFloat(shader.BloomIntensity, b.Intensity)
	ctx.SetGlobalTexture(shader.FXSource2, source)
	result, err := s.acquire(shader.BloomResult, s.cfg.BufferSize, format)
	if err != nil {
		return false, err
	}
	if err := s.draw(from, result, combinePass); err != nil {
		return false, err
	}
	return true, s.cfg.Scope.Release(from)
}
